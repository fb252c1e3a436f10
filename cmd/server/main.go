package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docugen/internal"
	"docugen/internal/config"
	"docugen/internal/convert"
	"docugen/internal/handlers"
	"docugen/internal/services"
	"docugen/internal/storage"
	"docugen/internal/tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := config.NewLogger(cfg.Server.Environment)

	if err := internal.InitDB(cfg); err != nil {
		logger.WithError(err).Fatal("failed to initialize database")
	}
	defer internal.CloseDB()
	logger.Info("database connected and migrated")

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize storage")
	}
	defer store.Close()

	pool := tasks.NewPool(4, 64, logger)
	pool.Start()
	defer pool.Stop()

	cleanup := tasks.NewFileCleanupService(cfg.Storage.ScratchDir, "", cfg.Storage.Retention, logger)
	cleanup.Start()
	defer cleanup.Stop()

	converter := convert.NewConverter(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout, logger)

	templateService := services.NewTemplateService(store, logger)
	documentService := services.NewDocumentService(templateService, store, converter, pool, logger)
	batchService := services.NewBatchService(documentService, logger)
	activityLogService := services.NewActivityLogService(pool, logger)

	templateHandler := handlers.NewTemplateHandler(templateService)
	documentHandler := handlers.NewDocumentHandler(documentService, batchService)
	logsHandler := handlers.NewLogsHandler(activityLogService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(activityLogService.LoggingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/templates", templateHandler.List)
		v1.GET("/templates/:templateId", templateHandler.Get)
		v1.GET("/templates/:templateId/fields", templateHandler.Fields)
		v1.GET("/fields/merged", templateHandler.MergedFields)

		v1.POST("/templates/:templateId/generate", documentHandler.Generate)
		v1.POST("/generate/batch", documentHandler.GenerateBatch)
		v1.GET("/batches/:batchId", documentHandler.BatchStatus)
		v1.GET("/batches/:batchId/download", documentHandler.BatchDownload)

		v1.GET("/documents/:documentId", documentHandler.Get)
		v1.GET("/documents/:documentId/download", documentHandler.Download)
	}

	admin := v1.Group("/admin", handlers.AdminAuth(cfg.Server.AdminKey))
	{
		admin.POST("/templates", templateHandler.Upload)
		admin.GET("/templates/:templateId/download", templateHandler.Download)
		admin.PATCH("/templates/:templateId", templateHandler.Update)
		admin.PATCH("/templates/:templateId/fields/:fieldId", templateHandler.UpdateField)
		admin.PATCH("/templates/:templateId/active", templateHandler.SetActive)
		admin.DELETE("/templates/:templateId", templateHandler.Delete)

		admin.GET("/documents", documentHandler.List)
		admin.DELETE("/documents/:documentId", documentHandler.Delete)

		admin.GET("/stats", handlers.GetStats)
		admin.GET("/logs", logsHandler.GetAllLogs)
		admin.GET("/logs/history", logsHandler.GetHistory)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("forced shutdown")
	}
}

// buildStore picks GCS when a bucket is configured, local disk otherwise.
func buildStore(cfg *config.Config, logger *logrus.Logger) (storage.ObjectStore, error) {
	if cfg.Storage.UseGCS() {
		logger.WithField("bucket", cfg.Storage.GCSBucket).Info("using GCS storage")
		return storage.NewGCSStore(context.Background(), cfg.Storage.GCSBucket, cfg.Storage.CredentialsPath)
	}
	logger.WithField("dir", cfg.Storage.LocalDir).Info("using local disk storage")
	return storage.NewDiskStore(cfg.Storage.LocalDir)
}

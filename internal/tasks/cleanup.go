package tasks

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// FileCleanupService periodically removes stale files from the scratch
// directories used during uploads and conversions.
type FileCleanupService struct {
	uploadDir string
	outputDir string
	maxAge    time.Duration
	ticker    *time.Ticker
	done      chan bool
	logger    *logrus.Logger
}

func NewFileCleanupService(uploadDir, outputDir string, maxAge time.Duration, logger *logrus.Logger) *FileCleanupService {
	return &FileCleanupService{
		uploadDir: uploadDir,
		outputDir: outputDir,
		maxAge:    maxAge,
		done:      make(chan bool),
		logger:    logger,
	}
}

func (fcs *FileCleanupService) Start() {
	fcs.ticker = time.NewTicker(1 * time.Hour)
	go func() {
		for {
			select {
			case <-fcs.done:
				return
			case <-fcs.ticker.C:
				fcs.cleanupOldFiles()
			}
		}
	}()
	fcs.logger.Info("file cleanup service started")
}

func (fcs *FileCleanupService) Stop() {
	if fcs.ticker != nil {
		fcs.ticker.Stop()
	}
	fcs.done <- true
	fcs.logger.Info("file cleanup service stopped")
}

func (fcs *FileCleanupService) cleanupOldFiles() {
	fcs.cleanupDirectory(fcs.uploadDir)
	fcs.cleanupDirectory(fcs.outputDir)
}

func (fcs *FileCleanupService) cleanupDirectory(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > fcs.maxAge {
			fcs.logger.WithField("path", path).Info("cleaning up old file")
			return os.Remove(path)
		}

		return nil
	})

	if err != nil {
		fcs.logger.WithError(err).WithField("dir", dir).Warn("cleanup failed")
	}
}

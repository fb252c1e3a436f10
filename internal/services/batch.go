package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docugen/internal"
	"docugen/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BatchRequest is one submission producing a document per selected
// template from a single merged set of inputs.
type BatchRequest struct {
	TemplateIDs []string          `json:"template_ids"`
	UserName    string            `json:"user_name"`
	UserEmail   string            `json:"user_email"`
	Inputs      map[string]string `json:"inputs"`
	Format      string            `json:"format"`
}

type BatchService struct {
	documents *DocumentService
	logger    *logrus.Logger
}

func NewBatchService(documents *DocumentService, logger *logrus.Logger) *BatchService {
	return &BatchService{
		documents: documents,
		logger:    logger,
	}
}

// generateFunc produces one document for a template id. Factored out so the
// batch loop is testable without a database.
type generateFunc func(templateID string) (*models.GeneratedDocument, error)

// runBatch processes template ids strictly in order, collecting successes
// and per-template errors. One failure never stops the remaining templates.
func runBatch(templateIDs []string, generate generateFunc) (documents []*models.GeneratedDocument, errs []string) {
	for _, id := range templateIDs {
		doc, err := generate(id)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Template %s: %v", id, err))
			continue
		}
		documents = append(documents, doc)
	}
	return documents, errs
}

// batchStatus decides the terminal status from the loop outcome.
func batchStatus(errs []string) string {
	if len(errs) > 0 {
		return models.BatchStatusCompletedWithErrors
	}
	return models.BatchStatusCompleted
}

// Process runs one batch synchronously. Templates are processed
// sequentially in submission order; each failure is recorded and the rest
// continue. The job row is written once up front and updated exactly once
// with the terminal status.
func (s *BatchService) Process(ctx context.Context, req BatchRequest) (*models.BatchJob, []*models.GeneratedDocument, error) {
	if len(req.TemplateIDs) == 0 {
		return nil, nil, fmt.Errorf("at least one template is required")
	}

	templateIDsJSON, err := json.Marshal(req.TemplateIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode template ids: %w", err)
	}
	inputsJSON, err := json.Marshal(req.Inputs)
	if err != nil {
		inputsJSON = []byte("{}")
	}

	job := &models.BatchJob{
		BatchID:        uuid.New().String(),
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		TemplateIDs:    string(templateIDsJSON),
		UserInputs:     string(inputsJSON),
		Status:         models.BatchStatusProcessing,
		TotalDocuments: len(req.TemplateIDs),
	}
	if err := internal.DB.Create(job).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create batch job: %w", err)
	}

	documents, errs := runBatch(req.TemplateIDs, func(templateID string) (*models.GeneratedDocument, error) {
		return s.documents.Generate(ctx, GenerateRequest{
			TemplateID: templateID,
			UserName:   req.UserName,
			UserEmail:  req.UserEmail,
			Inputs:     req.Inputs,
			Format:     req.Format,
		})
	})

	for _, doc := range documents {
		if err := internal.DB.Model(doc).Update("batch_id", job.BatchID).Error; err != nil {
			s.logger.WithError(err).WithField("document_id", doc.ID).Warn("failed to tag document with batch id")
		} else {
			doc.BatchID = job.BatchID
		}
	}

	now := time.Now()
	job.Status = batchStatus(errs)
	job.SuccessfulDocuments = len(documents)
	job.ErrorMessage = joinErrors(errs)
	job.CompletedAt = &now

	if err := internal.DB.Model(job).Updates(map[string]interface{}{
		"status":               job.Status,
		"successful_documents": job.SuccessfulDocuments,
		"error_message":        job.ErrorMessage,
		"completed_at":         job.CompletedAt,
	}).Error; err != nil {
		s.logger.WithError(err).WithField("batch_id", job.BatchID).Error("failed to finalize batch job")
	}

	return job, documents, nil
}

func joinErrors(errs []string) string {
	return strings.Join(errs, "; ")
}

// GetBatch looks a job up by its public batch id.
func (s *BatchService) GetBatch(batchID string) (*models.BatchJob, error) {
	var job models.BatchJob
	if err := internal.DB.First(&job, "batch_id = ?", batchID).Error; err != nil {
		return nil, fmt.Errorf("batch not found: %w", err)
	}
	return &job, nil
}

// BatchDocuments returns the documents tagged with a batch id.
func (s *BatchService) BatchDocuments(batchID string) ([]models.GeneratedDocument, error) {
	var documents []models.GeneratedDocument
	if err := internal.DB.Where("batch_id = ?", batchID).Order("created_at ASC").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to list batch documents: %w", err)
	}
	return documents, nil
}

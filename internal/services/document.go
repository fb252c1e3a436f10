package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"docugen/internal"
	"docugen/internal/convert"
	"docugen/internal/docx"
	"docugen/internal/fieldset"
	"docugen/internal/models"
	"docugen/internal/storage"
	"docugen/internal/tasks"
	"docugen/internal/transform"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Output formats for generated documents.
const (
	FormatDocx = "docx"
	FormatPDF  = "pdf"
)

// MarginOverrides carries per-request page margins in inches. Values of
// zero or less leave the template's own margins in place.
type MarginOverrides struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// GenerateRequest is one document generation submission.
type GenerateRequest struct {
	TemplateID string            `json:"template_id"`
	UserName   string            `json:"user_name"`
	UserEmail  string            `json:"user_email"`
	Inputs     map[string]string `json:"inputs"`
	Format     string            `json:"format"`
	Margins    *MarginOverrides  `json:"margins"`
}

type DocumentService struct {
	templates *TemplateService
	store     storage.ObjectStore
	converter *convert.Converter
	pool      *tasks.Pool
	logger    *logrus.Logger
}

func NewDocumentService(templates *TemplateService, store storage.ObjectStore, converter *convert.Converter, pool *tasks.Pool, logger *logrus.Logger) *DocumentService {
	return &DocumentService{
		templates: templates,
		store:     store,
		converter: converter,
		pool:      pool,
		logger:    logger,
	}
}

// Generate renders one document from a template and the submitted values.
// Validation failures abort before any file is touched. The record is
// created only after the artifact is stored; if the record cannot be saved
// the stored file is removed so no orphan remains.
func (s *DocumentService) Generate(ctx context.Context, req GenerateRequest) (*models.GeneratedDocument, error) {
	data, template, err := s.templates.TemplateFile(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.IsActive {
		return nil, fmt.Errorf("template is not active")
	}

	views := fieldset.Merge(template.Fields)
	if err := transform.Validate(views, req.Inputs); err != nil {
		return nil, err
	}

	artifact, filename, err := s.render(ctx, data, template, req)
	if err != nil {
		return nil, err
	}

	documentID := uuid.New().String()
	objectName := storage.DocumentObjectName(documentID, filename)

	contentType := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if strings.EqualFold(req.Format, FormatPDF) {
		contentType = "application/pdf"
	}

	result, err := s.store.UploadFile(ctx, bytes.NewReader(artifact), objectName, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	inputsJSON, err := json.Marshal(req.Inputs)
	if err != nil {
		inputsJSON = []byte("{}")
	}

	document := &models.GeneratedDocument{
		ID:               documentID,
		TemplateID:       template.ID,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		StoragePath:      objectName,
		Filename:         filename,
		OriginalFilename: template.Name,
		FileSize:         result.Size,
		UserInputs:       string(inputsJSON),
	}

	if err := internal.DB.Create(document).Error; err != nil {
		if delErr := s.store.DeleteFile(ctx, objectName); delErr != nil {
			s.logger.WithError(delErr).WithField("object", objectName).Warn("failed to remove orphaned document file")
		}
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	return document, nil
}

// render substitutes values into the template and produces the requested
// artifact bytes plus its filename.
func (s *DocumentService) render(ctx context.Context, data []byte, template *models.DocumentTemplate, req GenerateRequest) ([]byte, string, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return nil, "", err
	}

	values := transform.BuildValues(template.Type, template.Fields, req.Inputs)
	doc.Substitute(values)

	// Stored template margins first (admin-editable), then any per-request
	// overrides on top.
	doc.OverrideMargins(template.MarginTop, template.MarginBottom, template.MarginLeft, template.MarginRight)
	if m := req.Margins; m != nil {
		doc.OverrideMargins(m.Top, m.Bottom, m.Left, m.Right)
	}

	rendered, err := doc.Bytes()
	if err != nil {
		return nil, "", err
	}

	filename := suggestedFilename(req.UserName, template.Name, req.Format)
	if strings.EqualFold(req.Format, FormatPDF) {
		return s.converter.DocxToPDF(ctx, rendered, filename), filename, nil
	}
	return rendered, filename, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// suggestedFilename builds "<user>_<template>_<timestamp>.<ext>" with
// unsafe characters collapsed to underscores.
func suggestedFilename(userName, templateName, format string) string {
	clean := func(s string) string {
		return strings.Trim(unsafeFilenameChars.ReplaceAllString(s, "_"), "_")
	}

	prefix := clean(userName)
	if prefix == "" {
		prefix = "document"
	}

	ext := FormatDocx
	if strings.EqualFold(format, FormatPDF) {
		ext = FormatPDF
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", prefix, clean(templateName), timestamp, ext)
}

func (s *DocumentService) GetDocument(documentID string) (*models.GeneratedDocument, error) {
	var document models.GeneratedDocument
	if err := internal.DB.Preload("Template").First(&document, "id = ?", documentID).Error; err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}
	return &document, nil
}

// ListDocuments returns the most recent generated documents.
func (s *DocumentService) ListDocuments(limit int) ([]models.GeneratedDocument, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var documents []models.GeneratedDocument
	if err := internal.DB.Order("created_at DESC").Limit(limit).Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// DocumentReader streams a stored document's bytes for download.
func (s *DocumentService) DocumentReader(ctx context.Context, documentID string) (io.ReadCloser, *models.GeneratedDocument, error) {
	document, err := s.GetDocument(documentID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.ReadFile(ctx, document.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return rc, document, nil
}

// DeleteDocument soft-deletes the record immediately and removes the stored
// file on the worker pool so the request does not wait on storage.
func (s *DocumentService) DeleteDocument(ctx context.Context, documentID string) error {
	document, err := s.GetDocument(documentID)
	if err != nil {
		return err
	}

	if err := internal.DB.Delete(document).Error; err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	objectName := document.StoragePath
	if _, err := s.pool.Submit("delete-document-file", func() error {
		return s.store.DeleteFile(context.Background(), objectName)
	}); err != nil {
		s.logger.WithError(err).WithField("object", objectName).Warn("falling back to inline file delete")
		if delErr := s.store.DeleteFile(ctx, objectName); delErr != nil {
			s.logger.WithError(delErr).WithField("object", objectName).Warn("failed to delete document file")
		}
	}

	return nil
}

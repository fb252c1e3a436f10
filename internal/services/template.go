package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"docugen/internal"
	"docugen/internal/docx"
	"docugen/internal/fieldset"
	"docugen/internal/infer"
	"docugen/internal/models"
	"docugen/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TemplateService struct {
	store  storage.ObjectStore
	logger *logrus.Logger
}

func NewTemplateService(store storage.ObjectStore, logger *logrus.Logger) *TemplateService {
	return &TemplateService{
		store:  store,
		logger: logger,
	}
}

// UploadTemplate registers a new template. The document is parsed and its
// placeholders extracted before anything is persisted, so a malformed upload
// leaves no record and no stored file behind.
func (s *TemplateService) UploadTemplate(ctx context.Context, data []byte, filename, name, templateType, description string) (*models.DocumentTemplate, error) {
	doc, err := docx.Open(data)
	if err != nil {
		return nil, err
	}
	occurrences := doc.Placeholders()

	templateID := uuid.New().String()
	fontFamily, fontSize := doc.DominantFont()
	section := doc.Section()

	if name == "" {
		name = strings.TrimSuffix(filename, ".docx")
	}
	if templateType == "" {
		templateType = "letter"
	}

	template := &models.DocumentTemplate{
		ID:                 templateID,
		Name:               name,
		Type:               strings.ToLower(templateType),
		Description:        description,
		StoragePath:        storage.TemplateObjectName(templateID, filename),
		FileSize:           int64(len(data)),
		FontFamily:         fontFamily,
		FontSize:           fontSize,
		MarginTop:          section.MarginTop,
		MarginBottom:       section.MarginBottom,
		MarginLeft:         section.MarginLeft,
		MarginRight:        section.MarginRight,
		DefaultLineSpacing: doc.LineSpacing(),
		IsActive:           true,
	}

	fields := buildFields(templateID, occurrences)

	result, err := s.store.UploadFile(ctx, bytes.NewReader(data), template.StoragePath,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	if err != nil {
		return nil, fmt.Errorf("failed to store template file: %w", err)
	}
	template.FileSize = result.Size

	err = internal.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Create(&fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if delErr := s.store.DeleteFile(ctx, template.StoragePath); delErr != nil {
			s.logger.WithError(delErr).WithField("object", template.StoragePath).Warn("failed to remove orphaned template file")
		}
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	template.Fields = fields
	return template, nil
}

// buildFields turns extraction occurrences into stored field records.
// Repeats of a base name get "_instance_<n>" names and an "(Instance n)"
// display suffix; every field starts out required.
func buildFields(templateID string, occurrences []docx.Occurrence) []models.PlaceholderField {
	counts := make(map[string]int)
	fields := make([]models.PlaceholderField, 0, len(occurrences))

	for i, occ := range occurrences {
		counts[occ.Name]++
		n := counts[occ.Name]

		key := fieldset.Key{Base: occ.Name, Instance: n}
		displayName := infer.DisplayName(occ.Name)
		if n > 1 {
			displayName = fmt.Sprintf("%s (Instance %d)", displayName, n)
		}

		options := ""
		if choices := infer.Options(occ.Name); len(choices) > 0 {
			if raw, err := json.Marshal(choices); err == nil {
				options = string(raw)
			}
		}

		fields = append(fields, models.PlaceholderField{
			TemplateID:     templateID,
			Name:           key.String(),
			DisplayName:    displayName,
			Type:           infer.Type(occ.Name),
			IsRequired:     true,
			Options:        options,
			HelpText:       infer.HelpText(occ.Name),
			Casing:         "none",
			DefaultValue:   infer.DefaultValue(occ.Name),
			SortOrder:      i,
			Bold:           occ.Formatting.Bold,
			Italic:         occ.Formatting.Italic,
			Underline:      occ.Formatting.Underline,
			FontFamily:     occ.Formatting.Font,
			FontSize:       occ.Formatting.Size,
			Alignment:      occ.Alignment,
			ParagraphIndex: occ.ParagraphIndex,
			RunIndex:       occ.RunIndex,
		})
	}

	return fields
}

func (s *TemplateService) GetTemplate(templateID string) (*models.DocumentTemplate, error) {
	var template models.DocumentTemplate
	if err := internal.DB.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&template, "id = ?", templateID).Error; err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return &template, nil
}

// ListTemplates returns templates, optionally restricted to active ones.
func (s *TemplateService) ListTemplates(activeOnly bool) ([]models.DocumentTemplate, error) {
	var templates []models.DocumentTemplate
	query := internal.DB.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// GetFields returns the merged, form-ready view of one template's fields.
func (s *TemplateService) GetFields(templateID string) ([]fieldset.View, error) {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	return fieldset.Merge(template.Fields), nil
}

// GetMergedFields returns one merged field list spanning several templates,
// used by the batch form so a shared field is asked for once.
func (s *TemplateService) GetMergedFields(templateIDs []string) ([]fieldset.View, error) {
	var fields []models.PlaceholderField
	for _, id := range templateIDs {
		template, err := s.GetTemplate(id)
		if err != nil {
			return nil, err
		}
		fields = append(fields, template.Fields...)
	}
	return fieldset.Merge(fields), nil
}

// UpdateField applies admin edits to one stored field record. The field
// name itself is immutable; it is the substitution key.
func (s *TemplateService) UpdateField(templateID string, fieldID uint, updates map[string]interface{}) (*models.PlaceholderField, error) {
	var field models.PlaceholderField
	if err := internal.DB.First(&field, "id = ? AND template_id = ?", fieldID, templateID).Error; err != nil {
		return nil, fmt.Errorf("field not found: %w", err)
	}

	allowed := map[string]bool{
		"display_name": true, "type": true, "is_required": true,
		"options": true, "help_text": true, "casing": true,
		"validation_pattern": true, "default_value": true, "sort_order": true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return &field, nil
	}

	if err := internal.DB.Model(&field).Updates(filtered).Error; err != nil {
		return nil, fmt.Errorf("failed to update field: %w", err)
	}
	return &field, nil
}

// UpdateTemplate applies admin edits to template metadata, including the
// stored page margins the renderer applies.
func (s *TemplateService) UpdateTemplate(templateID string, updates map[string]interface{}) (*models.DocumentTemplate, error) {
	allowed := map[string]bool{
		"name": true, "type": true, "description": true,
		"font_family": true, "font_size": true,
		"margin_top": true, "margin_bottom": true,
		"margin_left": true, "margin_right": true,
		"default_line_spacing": true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	if len(filtered) > 0 {
		result := internal.DB.Model(&models.DocumentTemplate{}).
			Where("id = ?", templateID).
			Updates(filtered)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update template: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("template not found")
		}
	}

	return s.GetTemplate(templateID)
}

// SetActive toggles a template's availability on the public listing.
func (s *TemplateService) SetActive(templateID string, active bool) error {
	result := internal.DB.Model(&models.DocumentTemplate{}).
		Where("id = ?", templateID).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("template not found")
	}
	return nil
}

// DeleteTemplate soft-deletes the template and its fields and removes the
// stored file. The storage delete is best effort; a missing object must not
// block removing the records.
func (s *TemplateService) DeleteTemplate(ctx context.Context, templateID string) error {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteFile(ctx, template.StoragePath); err != nil {
		s.logger.WithError(err).WithField("object", template.StoragePath).Warn("failed to delete template file")
	}

	return internal.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).Delete(&models.PlaceholderField{}).Error; err != nil {
			return err
		}
		return tx.Delete(template).Error
	})
}

// TemplateFile streams the stored template bytes.
func (s *TemplateService) TemplateFile(ctx context.Context, templateID string) ([]byte, *models.DocumentTemplate, error) {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.ReadFile(ctx, template.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read template file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return data, template, nil
}

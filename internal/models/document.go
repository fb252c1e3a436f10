package models

import (
	"time"

	"gorm.io/gorm"
)

// Batch job statuses.
const (
	BatchStatusPending             = "pending"
	BatchStatusProcessing          = "processing"
	BatchStatusCompleted           = "completed"
	BatchStatusCompletedWithErrors = "completed_with_errors"
)

// GeneratedDocument is one successful rendering result. It is created only
// after the artifact has been written and is never mutated afterwards except
// to attach a batch id.
type GeneratedDocument struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	TemplateID        string         `gorm:"not null;index" json:"template_id"`
	UserName          string         `gorm:"not null" json:"user_name"`
	UserEmail         string         `json:"user_email"`
	StoragePath       string         `gorm:"not null" json:"storage_path"`
	Filename          string         `gorm:"not null" json:"filename"`
	OriginalFilename  string         `json:"original_filename"`
	FileSize          int64          `json:"file_size"`
	UserInputs        string         `gorm:"type:json" json:"user_inputs"` // exact submitted values
	BatchID           string         `gorm:"index" json:"batch_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Template DocumentTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}

// BatchJob groups the documents produced from one submission spanning several
// templates. It tags GeneratedDocuments via BatchID but does not own them.
// Updated exactly once at completion; no partial progress is persisted.
type BatchJob struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	BatchID             string         `gorm:"uniqueIndex;not null" json:"batch_id"`
	UserName            string         `gorm:"not null" json:"user_name"`
	UserEmail           string         `json:"user_email"`
	TemplateIDs         string         `gorm:"type:json;not null" json:"template_ids"`
	UserInputs          string         `gorm:"type:json;not null" json:"user_inputs"`
	Status              string         `gorm:"default:'pending'" json:"status"`
	TotalDocuments      int            `gorm:"default:0" json:"total_documents"`
	SuccessfulDocuments int            `gorm:"default:0" json:"successful_documents"`
	ErrorMessage        string         `gorm:"type:text" json:"error_message"`
	CreatedAt           time.Time      `json:"created_at"`
	CompletedAt         *time.Time     `json:"completed_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BatchJob) TableName() string {
	return "batch_jobs"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// DocumentTemplate is one uploaded .docx template. The type tag drives the
// template-specific value transforms (date phrasing, address reflow).
type DocumentTemplate struct {
	ID                 string         `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"not null" json:"name"`
	Type               string         `gorm:"not null" json:"type"` // letter, affidavit, ...
	Description        string         `json:"description"`
	StoragePath        string         `gorm:"not null" json:"storage_path"`
	FileSize           int64          `json:"file_size"`
	FontFamily         string         `gorm:"default:'Times New Roman'" json:"font_family"`
	FontSize           int            `gorm:"default:12" json:"font_size"`
	MarginTop          float64        `gorm:"default:1" json:"margin_top"`
	MarginBottom       float64        `gorm:"default:1" json:"margin_bottom"`
	MarginLeft         float64        `gorm:"default:1" json:"margin_left"`
	MarginRight        float64        `gorm:"default:1" json:"margin_right"`
	DefaultLineSpacing float64        `gorm:"default:1" json:"default_line_spacing"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Fields    []PlaceholderField  `gorm:"foreignKey:TemplateID" json:"fields,omitempty"`
	Documents []GeneratedDocument `gorm:"foreignKey:TemplateID" json:"documents,omitempty"`
}

func (DocumentTemplate) TableName() string {
	return "document_templates"
}

// PlaceholderField is one fillable slot discovered in a template. When the
// same base name occurs more than once, each occurrence after the first is
// stored under "<base>_instance_<n>". The formatting snapshot is captured at
// extraction time for the admin edit view; rendering substitutes plain text
// and never reapplies it, because the template's own run formatting already
// covers the inserted value.
type PlaceholderField struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	TemplateID        string         `gorm:"not null;index" json:"template_id"`
	Name              string         `gorm:"not null" json:"name"`
	DisplayName       string         `json:"display_name"`
	Type              string         `gorm:"default:'text'" json:"type"` // text, date, email, number, url, option
	IsRequired        bool           `gorm:"default:false" json:"is_required"`
	Options           string         `gorm:"type:json" json:"options"` // JSON array of strings
	HelpText          string         `json:"help_text"`
	Casing            string         `gorm:"default:'none'" json:"casing"` // upper, lower, title, none
	ValidationPattern string         `json:"validation_pattern"`
	DefaultValue      string         `json:"default_value"`
	SortOrder         int            `gorm:"default:0" json:"sort_order"`
	Bold              bool           `gorm:"default:false" json:"bold"`
	Italic            bool           `gorm:"default:false" json:"italic"`
	Underline         bool           `gorm:"default:false" json:"underline"`
	FontFamily        string         `json:"font_family"`
	FontSize          int            `json:"font_size"`
	Alignment         string         `json:"alignment"`
	LeftIndent        float64        `gorm:"default:0" json:"left_indent"`
	ParagraphIndex    int            `json:"paragraph_index"`
	RunIndex          int            `json:"run_index"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Template DocumentTemplate `gorm:"foreignKey:TemplateID" json:"-"`
}

func (PlaceholderField) TableName() string {
	return "placeholder_fields"
}

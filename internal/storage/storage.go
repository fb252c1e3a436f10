// Package storage abstracts where template and document files live. The
// server runs against GCS in production and a local directory in
// development; both implement ObjectStore.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

type UploadResult struct {
	ObjectName string `json:"object_name"`
	PublicURL  string `json:"public_url"`
	Size       int64  `json:"size"`
}

type ObjectStore interface {
	UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error)
	ReadFile(ctx context.Context, objectName string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectName string) error
	Close() error
}

// TemplateObjectName builds the storage path for an uploaded template.
// The timestamp prefix keeps re-uploads of the same filename distinct.
func TemplateObjectName(templateID, filename string) string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("templates/%s/%d_%s", templateID, timestamp, filename)
}

// DocumentObjectName builds the storage path for a generated document.
func DocumentObjectName(documentID, filename string) string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("documents/%s/%d_%s", documentID, timestamp, filename)
}

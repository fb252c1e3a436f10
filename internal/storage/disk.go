package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps objects under a local root directory. Object names are
// slash-separated paths, same as the GCS layout, so the two stores are
// interchangeable.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (d *DiskStore) path(objectName string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(objectName))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}
	return filepath.Join(d.root, cleaned), nil
}

func (d *DiskStore) UploadFile(_ context.Context, reader io.Reader, objectName, _ string) (*UploadResult, error) {
	target, err := d.path(objectName)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create object file: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close object file: %w", err)
	}

	return &UploadResult{
		ObjectName: objectName,
		PublicURL:  "file://" + target,
		Size:       size,
	}, nil
}

func (d *DiskStore) ReadFile(_ context.Context, objectName string) (io.ReadCloser, error) {
	target, err := d.path(objectName)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

func (d *DiskStore) DeleteFile(_ context.Context, objectName string) error {
	target, err := d.path(objectName)
	if err != nil {
		return err
	}
	return os.Remove(target)
}

func (d *DiskStore) Close() error {
	return nil
}

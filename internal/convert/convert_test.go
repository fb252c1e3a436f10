package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func minimalDocx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating document part: %v", err)
	}
	w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func isPDF(data []byte) bool {
	return len(data) > 4 && bytes.HasPrefix(data, []byte("%PDF"))
}

func TestRasterize(t *testing.T) {
	pdf, err := rasterize(minimalDocx(t, "Hello rasterizer"))
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if !isPDF(pdf) {
		t.Error("rasterize output is not a PDF")
	}
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	if _, err := rasterize([]byte("garbage")); err == nil {
		t.Error("expected error for non-docx input")
	}
}

func TestMinimalPDF(t *testing.T) {
	if pdf := minimalPDF(); !isPDF(pdf) {
		t.Error("minimalPDF output is not a PDF")
	}
}

func TestDocxToPDFWithoutRemote(t *testing.T) {
	c := NewConverter("", "30s", testLogger())
	pdf := c.DocxToPDF(context.Background(), minimalDocx(t, "offline conversion"), "out.docx")
	if !isPDF(pdf) {
		t.Error("expected a PDF from the raster path")
	}
}

func TestDocxToPDFNeverEmpty(t *testing.T) {
	c := NewConverter("", "30s", testLogger())
	// Garbage input cannot be rasterized; the placeholder page must still
	// come back.
	pdf := c.DocxToPDF(context.Background(), []byte("not a document"), "out.docx")
	if !isPDF(pdf) {
		t.Error("conversion must always produce a PDF")
	}
}

func TestNewConverterBadTimeout(t *testing.T) {
	c := NewConverter("", "not-a-duration", testLogger())
	if c.timeout.Seconds() != 30 {
		t.Errorf("expected 30s fallback timeout, got %v", c.timeout)
	}
}

// Package convert produces a best-effort PDF view of a rendered document.
// Conversion is lossy by contract: the primary path hands the document to a
// Gotenberg instance when one is configured, the fallback rasterizes the
// document text into page images, and if everything fails a minimal
// placeholder page is emitted. A conversion problem never fails the export.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	gotenberg "github.com/starwalkn/gotenberg-go-client/v8"
	"github.com/starwalkn/gotenberg-go-client/v8/document"

	"docugen/internal/docx"
)

// ConversionError records why a conversion path failed. It is recovered
// locally by falling back to the next path and never surfaces to callers.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s conversion failed: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

type Converter struct {
	client  *gotenberg.Client
	timeout time.Duration
	logger  *logrus.Logger
}

// NewConverter builds a converter. An empty gotenbergURL disables the
// remote path; the rasterizing fallback still applies.
func NewConverter(gotenbergURL, timeoutStr string, logger *logrus.Logger) *Converter {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		logger.WithField("timeout", timeoutStr).Warn("invalid gotenberg timeout, using 30s")
	}

	c := &Converter{timeout: timeout, logger: logger}
	if gotenbergURL != "" {
		client, err := gotenberg.NewClient(gotenbergURL, &http.Client{Timeout: timeout})
		if err != nil {
			logger.WithError(err).Warn("gotenberg client unavailable, using raster conversion only")
		} else {
			c.client = client
		}
	}
	return c
}

// DocxToPDF converts rendered document bytes to PDF. The result is always
// non-empty; failures degrade through the raster fallback down to a minimal
// placeholder page.
func (c *Converter) DocxToPDF(ctx context.Context, docxData []byte, filename string) []byte {
	if c.client != nil {
		pdf, err := c.sendToGotenberg(ctx, docxData, filename)
		if err == nil {
			return pdf
		}
		c.logger.WithError(&ConversionError{Path: "gotenberg", Err: err}).Warn("falling back to raster conversion")
	}

	pdf, err := rasterize(docxData)
	if err == nil {
		return pdf
	}
	c.logger.WithError(&ConversionError{Path: "raster", Err: err}).Warn("falling back to placeholder page")

	return minimalPDF()
}

func (c *Converter) sendToGotenberg(ctx context.Context, docxData []byte, filename string) ([]byte, error) {
	doc, err := document.FromReader(filename, bytes.NewReader(docxData))
	if err != nil {
		return nil, err
	}

	req := gotenberg.NewLibreOfficeRequest(doc)
	if parsed, err := docx.Open(docxData); err == nil && parsed.Section().Landscape {
		req.Landscape()
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Send(sendCtx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	return pdf, nil
}

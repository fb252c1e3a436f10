package services

import (
	"errors"
	"fmt"
	"testing"

	"docugen/internal/models"
)

func TestRunBatchAllSucceed(t *testing.T) {
	docs, errs := runBatch([]string{"a", "b", "c"}, func(id string) (*models.GeneratedDocument, error) {
		return &models.GeneratedDocument{TemplateID: id}, nil
	})
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if batchStatus(errs) != models.BatchStatusCompleted {
		t.Errorf("expected completed status, got %q", batchStatus(errs))
	}
}

func TestRunBatchFailureDoesNotStopRemaining(t *testing.T) {
	var processed []string
	docs, errs := runBatch([]string{"a", "bad", "c"}, func(id string) (*models.GeneratedDocument, error) {
		processed = append(processed, id)
		if id == "bad" {
			return nil, errors.New("template missing")
		}
		return &models.GeneratedDocument{TemplateID: id}, nil
	})

	if len(processed) != 3 {
		t.Fatalf("all templates must be attempted, got %v", processed)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 successes, got %d", len(docs))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if errs[0] != "Template bad: template missing" {
		t.Errorf("unexpected error format: %q", errs[0])
	}
	if batchStatus(errs) != models.BatchStatusCompletedWithErrors {
		t.Errorf("expected completed_with_errors, got %q", batchStatus(errs))
	}
}

func TestRunBatchSequentialOrder(t *testing.T) {
	ids := []string{"t1", "t2", "t3", "t4"}
	var order []string
	runBatch(ids, func(id string) (*models.GeneratedDocument, error) {
		order = append(order, id)
		return nil, fmt.Errorf("skip")
	})
	for i, id := range ids {
		if order[i] != id {
			t.Fatalf("templates must run in submission order, got %v", order)
		}
	}
}

func TestJoinErrors(t *testing.T) {
	if got := joinErrors(nil); got != "" {
		t.Errorf("expected empty join, got %q", got)
	}
	got := joinErrors([]string{"Template a: x", "Template b: y"})
	if got != "Template a: x; Template b: y" {
		t.Errorf("unexpected join: %q", got)
	}
}

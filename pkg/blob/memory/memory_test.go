package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/dittodrive/pkg/drive/fault"
)

func TestPutObject_RoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.PutObject(ctx, "alice/docs/report.pdf", strings.NewReader("payload"), "application/pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ct, err := s.GetObject("alice/docs/report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("expected payload, got %q", data)
	}
	if ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
}

func TestPutObject_Overwrites(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.PutObject(ctx, "k", strings.NewReader("one"), "text/plain")
	_ = s.PutObject(ctx, "k", strings.NewReader("two"), "text/plain")

	data, _, err := s.GetObject("k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("expected last write to win, got %q", data)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 object, got %d", s.Len())
	}
}

func TestMoveObject(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.PutObject(ctx, "old", strings.NewReader("payload"), "text/plain")

	if err := s.MoveObject(ctx, "old", "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := s.GetObject("old"); !fault.IsNotFound(err) {
		t.Fatalf("expected NotFound for old key, got %v", err)
	}
	data, _, err := s.GetObject("new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("payload lost in move, got %q", data)
	}
}

func TestMoveObject_MissingSourceIsNotFound(t *testing.T) {
	s := New()

	err := s.MoveObject(context.Background(), "absent", "new")
	if !fault.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestDeleteObject_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.PutObject(ctx, "k", strings.NewReader("payload"), "text/plain")

	if err := s.DeleteObject(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second delete of a missing object is still nil
	if err := s.DeleteObject(ctx, "k"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestPresignGetObject(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.PutObject(ctx, "alice/report.pdf", strings.NewReader("payload"), "application/pdf")

	url, err := s.PresignGetObject(ctx, "alice/report.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "memory://blob/alice/report.pdf?expires=") {
		t.Errorf("unexpected url shape: %q", url)
	}
}

func TestPresignGetObject_MissingKeyIsNotFound(t *testing.T) {
	s := New()

	_, err := s.PresignGetObject(context.Background(), "absent", time.Minute)
	if !fault.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

package jsonl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"badgesentry/pkg/models"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadEventsSkipsBlankLines(t *testing.T) {
	path := writeLog(t, `{"user_id":"u1","room_id":"A","timestamp":"2026-03-01T08:00:00Z"}

{"user_id":"u2","room_id":"B","timestamp":"2026-03-01T09:00:00Z","success":false}
`)

	events, err := LoadEvents(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].UserID != "u2" || events[1].Succeeded() {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestLoadEventsMalformedLineIsFatal(t *testing.T) {
	path := writeLog(t, `{"user_id":"u1","room_id":"A","timestamp":"2026-03-01T08:00:00Z"}
{not json}
`)

	_, err := LoadEvents(path)
	var formatErr *models.InputFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected InputFormatError, got %v", err)
	}
	if formatErr.Line != 2 {
		t.Fatalf("expected failure on line 2, got %d", formatErr.Line)
	}
}

func TestLoadEventsMissingFieldIsFatal(t *testing.T) {
	path := writeLog(t, `{"room_id":"A","timestamp":"2026-03-01T08:00:00Z"}
`)

	_, err := LoadEvents(path)
	var missing *models.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "user_id" {
		t.Fatalf("expected user_id to be reported, got %s", missing.Field)
	}
}

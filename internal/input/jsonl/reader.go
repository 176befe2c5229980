package jsonl

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"badgesentry/internal/transform/badge"
	"badgesentry/pkg/models"
)

// LoadEvents reads a newline-delimited JSON badge event log into memory.
// Blank lines are skipped. A malformed or incomplete record is fatal for
// the whole load; there is no partial-load skip policy.
func LoadEvents(path string) ([]*models.AccessEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	events := make([]*models.AccessEvent, 0, 4096)
	s := bufio.NewScanner(f)
	buf := make([]byte, 0, 1024*1024)
	s.Buffer(buf, 8*1024*1024)

	lineNo := 0
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		event, err := badge.ParseEvent([]byte(line))
		if err != nil {
			var missing *models.MissingFieldError
			if errors.As(err, &missing) {
				return nil, fmt.Errorf("event log line %d: %w", lineNo, missing)
			}
			return nil, &models.InputFormatError{Line: lineNo, Err: err}
		}
		events = append(events, event)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan event log: %w", err)
	}
	return events, nil
}

package reporthttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"badgesentry/pkg/models"
)

// Writer posts result collections to a remote collector endpoint.
type Writer struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// Config configures the HTTP writer.
type Config struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

type envelope struct {
	Collection string      `json:"collection"`
	Rows       interface{} `json:"rows"`
}

// NewWriter creates an HTTP report writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http report URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Writer{
		url:     cfg.URL,
		headers: cfg.Headers,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// WriteTravelFindings posts the impossible-travel collection.
func (w *Writer) WriteTravelFindings(findings []models.TravelFinding) error {
	return w.post("cloned_findings", findings)
}

// WriteCuriousUsers posts the curious-user collection.
func (w *Writer) WriteCuriousUsers(users []models.CuriousUser) error {
	return w.post("curious_users", users)
}

// WriteRoomProfiles posts the room classification collection.
func (w *Writer) WriteRoomProfiles(profiles []models.RoomProfile) error {
	return w.post("room_types", profiles)
}

// WriteWatchHits posts the watchlist hit collection.
func (w *Writer) WriteWatchHits(hits []models.WatchHit) error {
	return w.post("watch_hits", hits)
}

// Close releases HTTP resources.
func (w *Writer) Close() error {
	return nil
}

func (w *Writer) post(collection string, rows interface{}) error {
	body, err := json.Marshal(envelope{Collection: collection, Rows: rows})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", collection, err)
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http request failed with status %s", resp.Status)
	}

	return nil
}

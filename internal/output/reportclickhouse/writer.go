package reportclickhouse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"badgesentry/pkg/models"
)

// Config configures the ClickHouse HTTP writer. Each result collection
// lands in its own table.
type Config struct {
	URL          string
	Database     string
	TravelTable  string
	CuriousTable string
	RoomsTable   string
	WatchTable   string
	Username     string
	Password     string
	Timeout      time.Duration
	Headers      map[string]string
}

// Writer inserts result collections into ClickHouse via HTTP
// JSONEachRow.
type Writer struct {
	base    string
	db      string
	tables  map[string]string
	headers map[string]string
	client  *http.Client
}

// NewWriter creates a ClickHouse HTTP writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("clickhouse URL is empty")
	}
	if cfg.Database == "" {
		cfg.Database = "default"
	}
	if cfg.TravelTable == "" {
		cfg.TravelTable = "cloned_findings"
	}
	if cfg.CuriousTable == "" {
		cfg.CuriousTable = "curious_users"
	}
	if cfg.RoomsTable == "" {
		cfg.RoomsTable = "room_types"
	}
	if cfg.WatchTable == "" {
		cfg.WatchTable = "watch_hits"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	headers := map[string]string{}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if cfg.Username != "" {
		headers["X-ClickHouse-User"] = cfg.Username
	}
	if cfg.Password != "" {
		headers["X-ClickHouse-Key"] = cfg.Password
	}

	return &Writer{
		base: strings.TrimRight(cfg.URL, "/"),
		db:   cfg.Database,
		tables: map[string]string{
			"travel":  cfg.TravelTable,
			"curious": cfg.CuriousTable,
			"rooms":   cfg.RoomsTable,
			"watch":   cfg.WatchTable,
		},
		headers: headers,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// WriteTravelFindings inserts the impossible-travel collection.
func (w *Writer) WriteTravelFindings(findings []models.TravelFinding) error {
	rows := make([]interface{}, len(findings))
	for i := range findings {
		rows[i] = findings[i]
	}
	return w.insert(w.tables["travel"], rows)
}

// WriteCuriousUsers inserts the curious-user collection.
func (w *Writer) WriteCuriousUsers(users []models.CuriousUser) error {
	rows := make([]interface{}, len(users))
	for i := range users {
		rows[i] = users[i]
	}
	return w.insert(w.tables["curious"], rows)
}

// WriteRoomProfiles inserts the room classification collection.
func (w *Writer) WriteRoomProfiles(profiles []models.RoomProfile) error {
	rows := make([]interface{}, len(profiles))
	for i := range profiles {
		rows[i] = profiles[i]
	}
	return w.insert(w.tables["rooms"], rows)
}

// WriteWatchHits inserts the watchlist hit collection.
func (w *Writer) WriteWatchHits(hits []models.WatchHit) error {
	rows := make([]interface{}, len(hits))
	for i := range hits {
		rows[i] = hits[i]
	}
	return w.insert(w.tables["watch"], rows)
}

// Close releases resources.
func (w *Writer) Close() error {
	return nil
}

func (w *Writer) insert(table string, rows []interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to marshal row for %s: %w", table, err)
		}
	}

	q := fmt.Sprintf("INSERT INTO %s.%s FORMAT JSONEachRow", quoteIdent(w.db), quoteIdent(table))
	endpoint := w.base + "/?query=" + url.QueryEscape(q)

	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("clickhouse request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("clickhouse request failed with status %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func quoteIdent(v string) string {
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "`", "")
	return "`" + v + "`"
}

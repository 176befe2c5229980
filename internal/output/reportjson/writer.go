package reportjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"badgesentry/internal/logger"
	"badgesentry/pkg/models"
)

// File names mirror the collector's published interchange contract.
const (
	travelFile  = "cloned_findings.json"
	curiousFile = "curious_users.json"
	roomsFile   = "room_types.json"
	watchFile   = "watch_hits.json"
)

// Writer persists result collections as JSON record arrays in a
// directory, one file per collection.
type Writer struct {
	dir string
	mu  sync.Mutex
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Infof("Report JSON writer initialized: %s", dir)
	return &Writer{dir: dir}, nil
}

// WriteTravelFindings writes the impossible-travel collection.
func (w *Writer) WriteTravelFindings(findings []models.TravelFinding) error {
	return w.writeCollection(travelFile, findings)
}

// WriteCuriousUsers writes the curious-user collection.
func (w *Writer) WriteCuriousUsers(users []models.CuriousUser) error {
	return w.writeCollection(curiousFile, users)
}

// WriteRoomProfiles writes the room classification collection.
func (w *Writer) WriteRoomProfiles(profiles []models.RoomProfile) error {
	return w.writeCollection(roomsFile, profiles)
}

// WriteWatchHits writes the watchlist hit collection.
func (w *Writer) WriteWatchHits(hits []models.WatchHit) error {
	return w.writeCollection(watchFile, hits)
}

// Close is a no-op; each collection is written atomically per call.
func (w *Writer) Close() error {
	return nil
}

func (w *Writer) writeCollection(name string, rows interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

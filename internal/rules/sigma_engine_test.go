package rules

import (
	"os"
	"path/filepath"
	"testing"

	"badgesentry/pkg/models"
)

const datacenterRule = `title: Failed datacenter access
id: badge-dc-001
level: high
logsource:
  product: badge
  service: access
detection:
  selection:
    room_id: DATACENTER
    success: "false"
  condition: selection
`

const windowsRule = `title: Not a badge rule
logsource:
  product: windows
detection:
  selection:
    EventID: 1
  condition: selection
`

func writeRule(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rule: %v", err)
	}
	return path
}

func boolPtr(v bool) *bool { return &v }

func TestSigmaEngineMatchesBadgeEvent(t *testing.T) {
	path := writeRule(t, "dc.yml", datacenterRule)

	engine, stats, err := NewSigmaEngine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Loaded != 1 {
		t.Fatalf("expected 1 loaded rule, got %+v", stats)
	}

	tags := engine.Apply(&models.AccessEvent{
		UserID:    "u1",
		RoomID:    "DATACENTER",
		Timestamp: "2026-03-02T02:00:00Z",
		Success:   boolPtr(false),
	})
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %+v", tags)
	}
	if tags[0].ID != "badge-dc-001" || tags[0].Severity != "high" {
		t.Fatalf("unexpected tag: %+v", tags[0])
	}

	tags = engine.Apply(&models.AccessEvent{
		UserID:    "u1",
		RoomID:    "DATACENTER",
		Timestamp: "2026-03-02T02:00:00Z",
	})
	if len(tags) != 0 {
		t.Fatalf("successful access must not match, got %+v", tags)
	}
}

func TestSigmaEngineSkipsForeignDatasource(t *testing.T) {
	path := writeRule(t, "win.yml", windowsRule)

	engine, stats, err := NewSigmaEngine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.SkippedDatasource != 1 || stats.Loaded != 0 {
		t.Fatalf("expected the windows rule to be skipped, got %+v", stats)
	}

	tags := engine.Apply(&models.AccessEvent{UserID: "u1", RoomID: "A", Timestamp: "2026-03-02T02:00:00Z"})
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %+v", tags)
	}
}

func TestCollectHitsBuildsOneHitPerMatchedEvent(t *testing.T) {
	path := writeRule(t, "dc.yml", datacenterRule)
	engine, _, err := NewSigmaEngine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := []*models.AccessEvent{
		{UserID: "u1", RoomID: "DATACENTER", Timestamp: "2026-03-02T02:00:00Z", Success: boolPtr(false)},
		{UserID: "u2", RoomID: "LOBBY", Timestamp: "2026-03-02T08:00:00Z"},
	}

	hits := CollectHits(engine, events)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].UserID != "u1" || hits[0].RoomID != "DATACENTER" {
		t.Fatalf("unexpected hit: %+v", hits[0])
	}
}

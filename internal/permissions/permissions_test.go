package permissions

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "userprofile.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadTableListForm(t *testing.T) {
	path := writeProfile(t, `[
		{"user_id":"u1","allowed_rooms":["A","B"]},
		{"user_id":"u2","allowed_rooms":[]}
	]`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rooms, err := table.AllowedRooms("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rooms["A"]; !ok {
		t.Fatalf("expected room A allowed for u1, got %v", rooms)
	}
	if _, ok := rooms["C"]; ok {
		t.Fatalf("did not expect room C allowed for u1")
	}
}

func TestLoadTableMapForm(t *testing.T) {
	path := writeProfile(t, `{
		"u1": {"allowed_rooms": ["X"]},
		"u2": {"allowed_rooms": ["Y", "Z"]}
	}`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rooms, err := table.AllowedRooms("u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms for u2, got %v", rooms)
	}
}

func TestAllowedRoomsUnknownUserIsEmptySet(t *testing.T) {
	path := writeProfile(t, `[{"user_id":"u1","allowed_rooms":["A"]}]`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rooms, err := table.AllowedRooms("ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected empty set for unknown user, got %v", rooms)
	}
}

func TestLoadTableRejectsGarbage(t *testing.T) {
	path := writeProfile(t, `not json`)
	if _, err := LoadTable(path); err == nil {
		t.Fatalf("expected error for malformed profile file")
	}
}

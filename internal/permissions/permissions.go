package permissions

import (
	"encoding/json"
	"fmt"
	"os"
)

// Lookup resolves the set of rooms a user is entitled to access.
// Unknown users resolve to an empty set.
type Lookup interface {
	AllowedRooms(userID string) (map[string]struct{}, error)
}

// Table is an in-memory permission table loaded once per run.
type Table struct {
	allowed map[string]map[string]struct{}
}

type profileRecord struct {
	UserID       string   `json:"user_id"`
	AllowedRooms []string `json:"allowed_rooms"`
}

// LoadTable reads a user profile file. Both published shapes are
// accepted: a JSON array of {user_id, allowed_rooms} records and a JSON
// object keyed by user_id.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permission file: %w", err)
	}

	allowed := make(map[string]map[string]struct{})

	var list []profileRecord
	if err := json.Unmarshal(data, &list); err == nil {
		for _, rec := range list {
			if rec.UserID == "" {
				continue
			}
			allowed[rec.UserID] = roomSet(rec.AllowedRooms)
		}
		return &Table{allowed: allowed}, nil
	}

	var byUser map[string]profileRecord
	if err := json.Unmarshal(data, &byUser); err != nil {
		return nil, fmt.Errorf("parse permission file: %w", err)
	}
	for uid, rec := range byUser {
		allowed[uid] = roomSet(rec.AllowedRooms)
	}
	return &Table{allowed: allowed}, nil
}

// AllowedRooms returns the user's allowed room set.
func (t *Table) AllowedRooms(userID string) (map[string]struct{}, error) {
	if rooms, ok := t.allowed[userID]; ok {
		return rooms, nil
	}
	return map[string]struct{}{}, nil
}

func roomSet(rooms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		set[room] = struct{}{}
	}
	return set
}

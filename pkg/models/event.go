package models

// AccessEvent represents one row of the badge access log.
//
// RoomID is the unified location identifier; input records may carry it
// as either "room_id" or "location_id" and the loader folds both into
// this field. Timestamp keeps the original ISO-8601 string so that each
// analysis normalizes it independently.
type AccessEvent struct {
	UserID    string `json:"user_id"`
	RoomID    string `json:"room_id"`
	Timestamp string `json:"timestamp"`
	Success   *bool  `json:"success,omitempty"`
}

// Succeeded reports whether the badge swipe was accepted.
// An absent success field means the access succeeded.
func (e *AccessEvent) Succeeded() bool {
	return e == nil || e.Success == nil || *e.Success
}

package badge

import (
	"encoding/json"
	"strings"
	"time"

	"badgesentry/pkg/models"
)

type rawEvent struct {
	UserID     string `json:"user_id"`
	RoomID     string `json:"room_id"`
	LocationID string `json:"location_id"`
	Timestamp  string `json:"timestamp"`
	Success    *bool  `json:"success"`
}

// ParseEvent converts one event log record into a normalized AccessEvent.
// Records may carry the location under either "room_id" or "location_id";
// both denote the same physical room and are folded into RoomID.
func ParseEvent(data []byte) (*models.AccessEvent, error) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	room := raw.RoomID
	if room == "" {
		room = raw.LocationID
	}

	if raw.UserID == "" {
		return nil, &models.MissingFieldError{Field: "user_id"}
	}
	if room == "" {
		return nil, &models.MissingFieldError{Field: "room_id"}
	}
	if raw.Timestamp == "" {
		return nil, &models.MissingFieldError{Field: "timestamp"}
	}

	return &models.AccessEvent{
		UserID:    raw.UserID,
		RoomID:    room,
		Timestamp: raw.Timestamp,
		Success:   raw.Success,
	}, nil
}

// ParseTimestamp parses an ISO-8601 timestamp string. Values without an
// offset are taken as UTC; no local-timezone inference is applied.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &models.ParseError{Value: value}
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &models.ParseError{Value: value}
}

// EpochSeconds normalizes an ISO-8601 timestamp to UTC epoch seconds.
func EpochSeconds(value string) (int64, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// HourOfDay returns the 0-23 clock hour of the event's original
// timestamp, in the offset the timestamp was recorded with.
func HourOfDay(value string) (int, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}

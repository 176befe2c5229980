package badge

import (
	"errors"
	"testing"
	"time"

	"badgesentry/pkg/models"
)

func TestParseEventFoldsLocationIDIntoRoomID(t *testing.T) {
	event, err := ParseEvent([]byte(`{"user_id":"u1","location_id":"LOBBY","timestamp":"2026-03-01T08:00:00Z"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.RoomID != "LOBBY" {
		t.Fatalf("expected room LOBBY, got %q", event.RoomID)
	}
}

func TestParseEventPrefersRoomIDOverLocationID(t *testing.T) {
	event, err := ParseEvent([]byte(`{"user_id":"u1","room_id":"A","location_id":"B","timestamp":"2026-03-01T08:00:00Z"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.RoomID != "A" {
		t.Fatalf("expected room A, got %q", event.RoomID)
	}
}

func TestParseEventSuccessDefaultsToTrue(t *testing.T) {
	event, err := ParseEvent([]byte(`{"user_id":"u1","room_id":"A","timestamp":"2026-03-01T08:00:00Z"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !event.Succeeded() {
		t.Fatalf("expected absent success to mean success")
	}

	event, err = ParseEvent([]byte(`{"user_id":"u1","room_id":"A","timestamp":"2026-03-01T08:00:00Z","success":false}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Succeeded() {
		t.Fatalf("expected explicit false to mean failure")
	}
}

func TestParseEventRejectsMissingFields(t *testing.T) {
	cases := []struct {
		line  string
		field string
	}{
		{`{"room_id":"A","timestamp":"2026-03-01T08:00:00Z"}`, "user_id"},
		{`{"user_id":"u1","timestamp":"2026-03-01T08:00:00Z"}`, "room_id"},
		{`{"user_id":"u1","room_id":"A"}`, "timestamp"},
	}
	for _, tc := range cases {
		_, err := ParseEvent([]byte(tc.line))
		var missing *models.MissingFieldError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingFieldError for %s, got %v", tc.line, err)
		}
		if missing.Field != tc.field {
			t.Fatalf("expected missing %s, got %s", tc.field, missing.Field)
		}
	}
}

func TestEpochSecondsTreatsNaiveAsUTC(t *testing.T) {
	epoch, err := EpochSeconds("2026-03-01T12:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Unix()
	if epoch != want {
		t.Fatalf("expected %d, got %d", want, epoch)
	}
}

func TestEpochSecondsHonorsExplicitOffset(t *testing.T) {
	utc, err := EpochSeconds("2026-03-01T12:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offset, err := EpochSeconds("2026-03-01T12:00:00-05:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset-utc != 5*3600 {
		t.Fatalf("expected offset form to trail UTC by 5h, got %d", offset-utc)
	}
}

func TestEpochSecondsRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "not-a-timestamp", "2026-13-45T99:99:99Z"} {
		_, err := EpochSeconds(value)
		var parseErr *models.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError for %q, got %v", value, err)
		}
	}
}

func TestHourOfDayUsesOriginalOffset(t *testing.T) {
	hour, err := HourOfDay("2026-03-01T23:30:00-05:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hour != 23 {
		t.Fatalf("expected hour 23 in the recorded offset, got %d", hour)
	}
}

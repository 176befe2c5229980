package analyzer

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"badgesentry/pkg/models"
)

var travelBase = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func travelEvent(user, room string, offsetSecs int64) *models.AccessEvent {
	return &models.AccessEvent{
		UserID:    user,
		RoomID:    room,
		Timestamp: travelBase.Add(time.Duration(offsetSecs) * time.Second).Format(time.RFC3339),
	}
}

func TestDetectImpossibleTravelFlagsCloseLocationChange(t *testing.T) {
	events := []*models.AccessEvent{
		travelEvent("U1", "A", 0),
		travelEvent("U1", "B", 3600),
	}

	findings, err := DetectImpossibleTravel(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.UserID != "U1" || f.FirstLocation != "A" || f.SecondLocation != "B" {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if f.DeltaSecs != 3600 {
		t.Fatalf("expected delta 3600, got %d", f.DeltaSecs)
	}
	if f.SecondTS-f.FirstTS != 3600 {
		t.Fatalf("inconsistent instants: %+v", f)
	}
}

func TestDetectImpossibleTravelWindowBoundaryIsStrict(t *testing.T) {
	under := []*models.AccessEvent{
		travelEvent("U1", "A", 0),
		travelEvent("U1", "B", 14399),
	}
	findings, err := DetectImpossibleTravel(under)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected finding at 14399s, got %d", len(findings))
	}

	exact := []*models.AccessEvent{
		travelEvent("U1", "A", 0),
		travelEvent("U1", "B", 14400),
	}
	findings, err = DetectImpossibleTravel(exact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no finding at exactly 14400s, got %d", len(findings))
	}
}

func TestDetectImpossibleTravelIgnoresSameLocation(t *testing.T) {
	events := []*models.AccessEvent{
		travelEvent("U1", "A", 0),
		travelEvent("U1", "A", 60),
		travelEvent("U1", "A", 120),
	}

	findings, err := DetectImpossibleTravel(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings for same-location pairs, got %d", len(findings))
	}
}

func TestDetectImpossibleTravelSingleEventUser(t *testing.T) {
	findings, err := DetectImpossibleTravel([]*models.AccessEvent{travelEvent("U1", "A", 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings for single-event user, got %d", len(findings))
	}
}

func TestDetectImpossibleTravelSortsUnorderedInput(t *testing.T) {
	events := []*models.AccessEvent{
		travelEvent("U1", "B", 3600),
		travelEvent("U1", "A", 0),
	}

	findings, err := DetectImpossibleTravel(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].FirstLocation != "A" || findings[0].DeltaSecs != 3600 {
		t.Fatalf("expected chronological pair A->B, got %+v", findings[0])
	}
}

func TestDetectImpossibleTravelIsIdempotent(t *testing.T) {
	events := []*models.AccessEvent{
		travelEvent("U2", "X", 0),
		travelEvent("U1", "A", 0),
		travelEvent("U1", "B", 1800),
		travelEvent("U2", "Y", 900),
		travelEvent("U1", "C", 3600),
	}

	first, err := DetectImpossibleTravel(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DetectImpossibleTravel(events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical findings across runs:\n%+v\n%+v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(first))
	}
	// Users are visited in sorted order.
	if first[0].UserID != "U1" || first[2].UserID != "U2" {
		t.Fatalf("unexpected output order: %+v", first)
	}
}

func TestDetectImpossibleTravelBadTimestampIsFatal(t *testing.T) {
	events := []*models.AccessEvent{
		{UserID: "U1", RoomID: "A", Timestamp: "yesterday-ish"},
	}
	_, err := DetectImpossibleTravel(events)
	var parseErr *models.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

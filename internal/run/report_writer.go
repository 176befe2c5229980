package run

import "badgesentry/pkg/models"

// ReportWriter persists the analysis result collections.
type ReportWriter interface {
	WriteTravelFindings(findings []models.TravelFinding) error
	WriteCuriousUsers(users []models.CuriousUser) error
	WriteRoomProfiles(profiles []models.RoomProfile) error
	WriteWatchHits(hits []models.WatchHit) error
	Close() error
}

package rules

import "badgesentry/pkg/models"

// Engine applies watchlist rules to badge events.
type Engine interface {
	Apply(event *models.AccessEvent) []models.WatchTag
}

// NoopEngine returns no tags.
type NoopEngine struct{}

// Apply returns an empty tag list.
func (n *NoopEngine) Apply(event *models.AccessEvent) []models.WatchTag {
	return nil
}

// CollectHits runs the engine over the full event collection and
// returns one hit per event that matched at least one rule.
func CollectHits(engine Engine, events []*models.AccessEvent) []models.WatchHit {
	if engine == nil {
		return nil
	}
	hits := make([]models.WatchHit, 0, 16)
	for _, event := range events {
		tags := engine.Apply(event)
		if len(tags) == 0 {
			continue
		}
		hits = append(hits, models.WatchHit{
			UserID:    event.UserID,
			RoomID:    event.RoomID,
			Timestamp: event.Timestamp,
			Tags:      tags,
		})
	}
	return hits
}

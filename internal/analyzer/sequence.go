package analyzer

import (
	"sort"

	"badgesentry/internal/transform/badge"
	"badgesentry/pkg/models"
)

type sequencedEvent struct {
	event *models.AccessEvent
	epoch int64
}

// userSequences groups events by user and sorts each group ascending by
// epoch seconds. The sort is stable, so events with equal timestamps
// keep their original input order. The returned user list is sorted so
// iteration over groups is deterministic.
func userSequences(events []*models.AccessEvent) (map[string][]sequencedEvent, []string, error) {
	groups := make(map[string][]sequencedEvent, 256)
	for _, event := range events {
		epoch, err := badge.EpochSeconds(event.Timestamp)
		if err != nil {
			return nil, nil, err
		}
		groups[event.UserID] = append(groups[event.UserID], sequencedEvent{event: event, epoch: epoch})
	}

	users := make([]string, 0, len(groups))
	for user := range groups {
		users = append(users, user)
		seq := groups[user]
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].epoch < seq[j].epoch
		})
	}
	sort.Strings(users)

	return groups, users, nil
}

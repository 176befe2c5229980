package analyzer

import (
	"fmt"

	"badgesentry/pkg/models"
)

// A credential seen at two distinct locations less than four hours
// apart is physically implausible for a single holder.
const impossibleTravelWindowSecs = 4 * 60 * 60

// DetectImpossibleTravel scans each user's chronological badge sequence
// and flags consecutive events at different locations separated by
// strictly less than the travel window. Users are visited in sorted
// order, so output is deterministic for a given input.
func DetectImpossibleTravel(events []*models.AccessEvent) ([]models.TravelFinding, error) {
	groups, users, err := userSequences(events)
	if err != nil {
		return nil, fmt.Errorf("impossible travel detection: %w", err)
	}

	findings := make([]models.TravelFinding, 0, 32)
	for _, user := range users {
		seq := groups[user]
		for i := 1; i < len(seq); i++ {
			prev, cur := seq[i-1], seq[i]
			if cur.event.RoomID == prev.event.RoomID {
				continue
			}
			delta := cur.epoch - prev.epoch
			if delta >= impossibleTravelWindowSecs {
				continue
			}
			findings = append(findings, models.TravelFinding{
				UserID:         user,
				FirstLocation:  prev.event.RoomID,
				SecondLocation: cur.event.RoomID,
				FirstTS:        prev.epoch,
				SecondTS:       cur.epoch,
				DeltaSecs:      delta,
			})
		}
	}

	return findings, nil
}

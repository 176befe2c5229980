package analyzer

import (
	"fmt"
	"sort"

	"badgesentry/pkg/models"
)

// PermissionLookup resolves a user's allowed-room set. Unknown users
// resolve to an empty set.
type PermissionLookup interface {
	AllowedRooms(userID string) (map[string]struct{}, error)
}

// DetectCuriousUsers tallies unauthorized access attempts per user. An
// attempt counts only when the swipe explicitly failed AND the room is
// outside the user's allowed set; successful access to a disallowed
// room is an override or escalation, not curiosity. Users with no
// attempts are omitted. Output is sorted by attempts descending with
// user_id ascending as the tie-break.
func DetectCuriousUsers(events []*models.AccessEvent, perms PermissionLookup) ([]models.CuriousUser, error) {
	attempts := make(map[string]int, 64)
	for _, event := range events {
		if event.Succeeded() {
			continue
		}
		rooms, err := perms.AllowedRooms(event.UserID)
		if err != nil {
			return nil, fmt.Errorf("curious user detection: %w", err)
		}
		if _, ok := rooms[event.RoomID]; ok {
			continue
		}
		attempts[event.UserID]++
	}

	out := make([]models.CuriousUser, 0, len(attempts))
	for user, count := range attempts {
		out = append(out, models.CuriousUser{UserID: user, Attempts: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].UserID < out[j].UserID
	})

	return out, nil
}

package analyzer

import (
	"fmt"
	"sort"

	"badgesentry/internal/transform/badge"
	"badgesentry/pkg/models"
)

// Dwell times are clipped to this interval in minutes. The upper bound
// caps forgotten badge-outs and midnight rollovers without discarding
// the visit.
const (
	dwellClipMinMins = 0.0
	dwellClipMaxMins = 240.0
)

const defaultRoomLabel = "Other/Office"

type roomFeatures struct {
	roomID string
	visits int
	dwells []float64
	hours  [24]int
}

func (f *roomFeatures) traffic(hours ...int) int {
	total := 0
	for _, h := range hours {
		total += f.hours[h]
	}
	return total
}

func (f *roomFeatures) morning() int { return f.traffic(7, 8, 9) }
func (f *roomFeatures) lunch() int   { return f.traffic(11, 12, 13) }
func (f *roomFeatures) evening() int { return f.traffic(16, 17, 18, 19) }
func (f *roomFeatures) night() int   { return f.traffic(0, 1, 2, 3, 4, 5, 21, 22, 23) }

type labelRule struct {
	label   string
	matches func(median float64, f *roomFeatures) bool
}

// labelRules is evaluated in order and the LAST matching rule wins.
// The rules are not mutually exclusive; the override order is part of
// the classifier's contract.
var labelRules = []labelRule{
	{
		label: "Lobby/Entry",
		matches: func(med float64, f *roomFeatures) bool {
			return f.morning() > f.lunch() && med < 15
		},
	},
	{
		label: "Conference/Meeting",
		matches: func(med float64, f *roomFeatures) bool {
			return med >= 25 && med <= 150 && f.lunch() > f.morning() && f.lunch() > f.evening()
		},
	},
	{
		label: "Hallway/Break",
		matches: func(med float64, f *roomFeatures) bool {
			return med < 10 && f.morning()+f.lunch()+f.evening() > 50 && f.night() == 0
		},
	},
	{
		label: "Cafeteria",
		matches: func(med float64, f *roomFeatures) bool {
			return med >= 40 && med <= 90 && f.lunch() > f.morning()+f.evening() && f.lunch() > 20
		},
	},
	{
		label: "Security/Overnight/Server",
		matches: func(med float64, f *roomFeatures) bool {
			return f.night() > f.morning()+f.lunch()+f.evening() && med >= 60
		},
	},
}

// ProfileRooms derives a dwell time for every badge event with a
// same-user successor, aggregates visit counts and hour-of-day
// distributions per room, and classifies each room. Rooms whose only
// events are each user's last event have no qualifying visits and are
// excluded. Output is sorted by visits descending, room_id ascending.
func ProfileRooms(events []*models.AccessEvent) ([]models.RoomProfile, error) {
	groups, users, err := userSequences(events)
	if err != nil {
		return nil, fmt.Errorf("room profiling: %w", err)
	}

	features := make(map[string]*roomFeatures, 64)
	for _, user := range users {
		seq := groups[user]
		// The last event per user has no successor and is dropped
		// from dwell computation.
		for i := 0; i+1 < len(seq); i++ {
			cur, next := seq[i], seq[i+1]
			dwell := clipDwell(float64(next.epoch-cur.epoch) / 60.0)

			hour, err := badge.HourOfDay(cur.event.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("room profiling: %w", err)
			}

			f := features[cur.event.RoomID]
			if f == nil {
				f = &roomFeatures{roomID: cur.event.RoomID}
				features[cur.event.RoomID] = f
			}
			f.visits++
			f.dwells = append(f.dwells, dwell)
			f.hours[hour]++
		}
	}

	profiles := make([]models.RoomProfile, 0, len(features))
	for _, f := range features {
		med := median(f.dwells)
		label := defaultRoomLabel
		for _, rule := range labelRules {
			if rule.matches(med, f) {
				label = rule.label
			}
		}
		profiles = append(profiles, models.RoomProfile{
			RoomID:          f.roomID,
			Visits:          f.visits,
			MedianDwellMins: med,
			Label:           label,
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Visits != profiles[j].Visits {
			return profiles[i].Visits > profiles[j].Visits
		}
		return profiles[i].RoomID < profiles[j].RoomID
	})

	return profiles, nil
}

func clipDwell(mins float64) float64 {
	if mins < dwellClipMinMins {
		return dwellClipMinMins
	}
	if mins > dwellClipMaxMins {
		return dwellClipMaxMins
	}
	return mins
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

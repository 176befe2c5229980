package models

// TravelFinding flags a single credential observed at two distinct
// locations closer in time than physical travel would allow.
type TravelFinding struct {
	UserID         string `json:"user_id"`
	FirstLocation  string `json:"first_location"`
	SecondLocation string `json:"second_location"`
	FirstTS        int64  `json:"first_ts"`
	SecondTS       int64  `json:"second_ts"`
	DeltaSecs      int64  `json:"delta_secs"`
}

// CuriousUser tallies failed access attempts to rooms outside a user's
// permission set.
type CuriousUser struct {
	UserID   string `json:"user_id"`
	Attempts int    `json:"attempts"`
}

// RoomProfile is the inferred functional category of a room together
// with the visit statistics the label was derived from.
type RoomProfile struct {
	RoomID          string  `json:"room_id"`
	Visits          int     `json:"visits"`
	MedianDwellMins float64 `json:"median_dwell_mins"`
	Label           string  `json:"label"`
}

// WatchTag annotates an event that matched a watchlist rule.
type WatchTag struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// WatchHit is one badge event that matched at least one watchlist rule.
type WatchHit struct {
	UserID    string     `json:"user_id"`
	RoomID    string     `json:"room_id"`
	Timestamp string     `json:"timestamp"`
	Tags      []WatchTag `json:"tags"`
}

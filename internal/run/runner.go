package run

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"badgesentry/internal/analyzer"
	"badgesentry/internal/logger"
	"badgesentry/internal/metrics"
	"badgesentry/internal/rules"
	"badgesentry/pkg/models"
)

// Runner executes the three analyses over one immutable event snapshot
// and persists their results. The analyses share no derived state, so
// each can fail or succeed independently.
type Runner struct {
	Perms  analyzer.PermissionLookup
	Engine rules.Engine
	Writer ReportWriter
}

// Result holds the per-analysis outputs and errors of one run.
type Result struct {
	Travel    []models.TravelFinding
	TravelErr error

	Curious    []models.CuriousUser
	CuriousErr error

	Rooms    []models.RoomProfile
	RoomsErr error

	Watch []models.WatchHit
}

// Analyze runs all analyses concurrently against the event snapshot.
// The snapshot is read-only for every analysis, so this is race-free.
func (r *Runner) Analyze(events []*models.AccessEvent) *Result {
	start := time.Now()
	metrics.RunsTotal.Inc()
	metrics.EventsLoaded.Add(float64(len(events)))

	res := &Result{}
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		res.Travel, res.TravelErr = analyzer.DetectImpossibleTravel(events)
	}()
	go func() {
		defer wg.Done()
		res.Curious, res.CuriousErr = analyzer.DetectCuriousUsers(events, r.Perms)
	}()
	go func() {
		defer wg.Done()
		res.Rooms, res.RoomsErr = analyzer.ProfileRooms(events)
	}()
	wg.Wait()

	if r.Engine != nil {
		res.Watch = rules.CollectHits(r.Engine, events)
	}

	if res.TravelErr != nil {
		metrics.AnalysisFailures.WithLabelValues("travel").Inc()
	} else {
		metrics.FindingsEmitted.WithLabelValues("cloned_findings").Add(float64(len(res.Travel)))
	}
	if res.CuriousErr != nil {
		metrics.AnalysisFailures.WithLabelValues("curious").Inc()
	} else {
		metrics.FindingsEmitted.WithLabelValues("curious_users").Add(float64(len(res.Curious)))
	}
	if res.RoomsErr != nil {
		metrics.AnalysisFailures.WithLabelValues("rooms").Inc()
	} else {
		metrics.FindingsEmitted.WithLabelValues("room_types").Add(float64(len(res.Rooms)))
	}
	if r.Engine != nil {
		metrics.FindingsEmitted.WithLabelValues("watch_hits").Add(float64(len(res.Watch)))
	}

	metrics.RunDuration.Observe(time.Since(start).Seconds())
	return res
}

// Write persists the collections of every analysis that succeeded.
// A failed analysis produces no output at all; the other collections
// are still written.
func (r *Runner) Write(res *Result) error {
	var errs []error

	if res.TravelErr != nil {
		logger.Errorf("Impossible travel detection failed: %v", res.TravelErr)
		errs = append(errs, res.TravelErr)
	} else if err := r.Writer.WriteTravelFindings(res.Travel); err != nil {
		logger.Errorf("Failed to write travel findings: %v", err)
		errs = append(errs, err)
	}

	if res.CuriousErr != nil {
		logger.Errorf("Curious user detection failed: %v", res.CuriousErr)
		errs = append(errs, res.CuriousErr)
	} else if err := r.Writer.WriteCuriousUsers(res.Curious); err != nil {
		logger.Errorf("Failed to write curious users: %v", err)
		errs = append(errs, err)
	}

	if res.RoomsErr != nil {
		logger.Errorf("Room profiling failed: %v", res.RoomsErr)
		errs = append(errs, res.RoomsErr)
	} else if err := r.Writer.WriteRoomProfiles(res.Rooms); err != nil {
		logger.Errorf("Failed to write room profiles: %v", err)
		errs = append(errs, err)
	}

	if r.Engine != nil {
		if err := r.Writer.WriteWatchHits(res.Watch); err != nil {
			logger.Errorf("Failed to write watch hits: %v", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Summary renders the human-readable per-collection counts.
func (r *Runner) Summary(res *Result) string {
	var b strings.Builder
	b.WriteString("== Done ==\n")
	writeLine := func(label string, count int, err error) {
		if err != nil {
			fmt.Fprintf(&b, "%s: failed (%v)\n", label, err)
			return
		}
		fmt.Fprintf(&b, "%s: %d\n", label, count)
	}
	writeLine("Impossible traveler flags", len(res.Travel), res.TravelErr)
	writeLine("Curious users found", len(res.Curious), res.CuriousErr)
	writeLine("Labeled rooms", len(res.Rooms), res.RoomsErr)
	if r.Engine != nil {
		writeLine("Watchlist hits", len(res.Watch), nil)
	}
	return b.String()
}

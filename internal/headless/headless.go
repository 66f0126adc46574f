// Package headless steps an engine without a window, checking the
// physical invariants every frame. It backs the simulate command and
// soak-style tests.
package headless

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"walkabout/internal/locomotion"
)

var ErrInvariant = errors.New("invariant violated")

// speedSlack absorbs rounding in the speed cap rescale.
const speedSlack = 1e-9

type Options struct {
	Frames   int
	DT       float64
	Input    locomotion.Directional
	LogEvery int // frames between status lines, 0 disables
}

type Summary struct {
	Frames          int
	SimTime         float64
	Departures      int
	Arrivals        int
	Footfalls       int
	ActivityChanges int
	PeakSpeed       map[string]float64
	Stations        map[string]string // last station per agent, empty when idle
}

// Run steps eng opt.Frames times. It stops early with an error wrapping
// ErrInvariant if any agent leaves the floor or exceeds its speed cap, and
// with ctx.Err() if the context is cancelled.
func Run(ctx context.Context, eng *locomotion.Engine, opt Options, logger *log.Logger) (Summary, error) {
	sum := Summary{
		PeakSpeed: make(map[string]float64, eng.Len()),
		Stations:  make(map[string]string, eng.Len()),
	}
	eng.Subscribe(locomotion.EventDeparted, func(ev locomotion.Event) {
		sum.Departures++
		logger.Debug("departed", "agent", ev.AgentID, "x", ev.X, "z", ev.Z, "t", ev.Time)
	})
	eng.Subscribe(locomotion.EventArrived, func(ev locomotion.Event) {
		sum.Arrivals++
		logger.Debug("arrived", "agent", ev.AgentID, "x", ev.X, "z", ev.Z, "t", ev.Time)
	})
	eng.Subscribe(locomotion.EventFootfall, func(locomotion.Event) {
		sum.Footfalls++
	})
	eng.Subscribe(locomotion.EventActivityChanged, func(ev locomotion.Event) {
		sum.ActivityChanges++
		sum.Stations[ev.AgentID] = ev.Label
		logger.Debug("activity", "agent", ev.AgentID, "station", ev.Label, "t", ev.Time)
	})

	var snaps []locomotion.Snapshot
	for f := 0; f < opt.Frames; f++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		eng.Step(opt.DT, opt.Input)
		sum.Frames++
		sum.SimTime = eng.Time()

		snaps = eng.Snapshots(snaps[:0])
		for i := range snaps {
			s := &snaps[i]
			if err := check(s, eng.Bound()); err != nil {
				logger.Error("invariant", "frame", f, "agent", s.ID, "err", err)
				return sum, err
			}
			if s.Speed > sum.PeakSpeed[s.ID] {
				sum.PeakSpeed[s.ID] = s.Speed
			}
		}
		if opt.LogEvery > 0 && (f+1)%opt.LogEvery == 0 {
			logStatus(logger, f+1, eng.Time(), snaps)
		}
	}
	logger.Info("simulation done",
		"frames", sum.Frames,
		"time", fmt.Sprintf("%.2fs", sum.SimTime),
		"departures", sum.Departures,
		"arrivals", sum.Arrivals,
		"footfalls", sum.Footfalls,
	)
	return sum, nil
}

func check(s *locomotion.Snapshot, bound float64) error {
	if limit := s.Mode.MaxSpeed(); s.Speed > limit+speedSlack {
		return fmt.Errorf("%s speed %.6f above %.2f: %w", s.ID, s.Speed, limit, ErrInvariant)
	}
	x, y, z := s.Position[0], s.Position[1], s.Position[2]
	if x < -bound || x > bound || z < -bound || z > bound {
		return fmt.Errorf("%s at (%.3f, %.3f) outside ±%.2f: %w", s.ID, x, z, bound, ErrInvariant)
	}
	if y != locomotion.FloorHeight || s.Velocity[1] != 0 {
		return fmt.Errorf("%s left the floor plane: %w", s.ID, ErrInvariant)
	}
	return nil
}

func logStatus(logger *log.Logger, frame int, now float64, snaps []locomotion.Snapshot) {
	for i := range snaps {
		s := &snaps[i]
		logger.Info("agent",
			"frame", frame,
			"t", fmt.Sprintf("%.2f", now),
			"id", s.ID,
			"mode", s.Mode,
			"x", fmt.Sprintf("%.2f", s.Position[0]),
			"z", fmt.Sprintf("%.2f", s.Position[2]),
			"speed", fmt.Sprintf("%.2f", s.Speed),
			"branch", s.Pose.Branch,
			"station", s.Station,
		)
	}
}

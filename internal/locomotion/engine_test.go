package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, pts ...PointOfInterest) *Engine {
	t.Helper()
	e := NewEngine(Config{WorldSize: 20, Points: pts, Seed: 3})
	require.NoError(t, e.AddAgent(AgentSpec{ID: "player", Mode: PlayerControlled}))
	require.NoError(t, e.AddAgent(AgentSpec{ID: "ada", Mode: AIControlled, Position: mgl64.Vec2{3, 3}}))
	require.NoError(t, e.AddAgent(AgentSpec{ID: "bo", Mode: AIControlled, Position: mgl64.Vec2{-4, 2}}))
	require.NoError(t, e.Track("player"))
	return e
}

func TestEngineRejectsDuplicateAndUnknownAgents(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.AddAgent(AgentSpec{ID: "ada"}), ErrDuplicateAgent)
	assert.ErrorIs(t, e.Track("nobody"), ErrUnknownAgent)
	assert.ErrorIs(t, e.SetControlMode("nobody", AIControlled), ErrUnknownAgent)
}

func TestEngineClampsSpawnOntoFloor(t *testing.T) {
	e := NewEngine(Config{WorldSize: 10})
	require.NoError(t, e.AddAgent(AgentSpec{ID: "far", Position: mgl64.Vec2{50, -50}}))
	p, ok := e.Position("far")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{4.5, 0, -4.5}, p)
}

func TestEngineClampsFrameTime(t *testing.T) {
	e := newTestEngine(t)
	e.Step(3, Directional{})
	assert.InDelta(t, MaxFrameTime, e.Time(), 1e-12)
}

func TestEngineInvariantsHoldOverLongRun(t *testing.T) {
	e := newTestEngine(t)
	r := NewRand(8)
	var snaps []Snapshot
	for i := 0; i < 20000; i++ {
		in := Directional{
			Forward:  r.Intn(3) == 0,
			Backward: r.Intn(5) == 0,
			Left:     r.Intn(4) == 0,
			Right:    r.Intn(4) == 0,
		}
		e.Step(r.RangeF(0.001, 0.05), in)

		snaps = e.Snapshots(snaps)
		require.Len(t, snaps, 3)
		for _, s := range snaps {
			require.LessOrEqual(t, s.Speed, s.Mode.MaxSpeed()+1e-9, "%s frame %d", s.ID, i)
			require.LessOrEqual(t, math.Abs(s.Position[0]), e.Bound())
			require.LessOrEqual(t, math.Abs(s.Position[2]), e.Bound())
		}
	}
}

func TestEngineFollowersLeashAroundReference(t *testing.T) {
	e := newTestEngine(t)

	var departures int
	e.Subscribe(EventDeparted, func(ev Event) {
		departures++
		s, ok := e.Snapshot(ev.AgentID)
		require.True(t, ok)
		ref, ok := e.Reference()
		require.True(t, ok)
		require.LessOrEqual(t, s.LeashTarget.Sub(ground(ref)).Len(), LeashRadius+1e-9)
	})

	dt := 1.0 / 60
	for i := 0; i < 60*90; i++ {
		in := Directional{}
		// Walk the player around so the reference keeps moving.
		switch (i / 240) % 4 {
		case 0:
			in.Forward = true
		case 1:
			in.Left = true
		case 2:
			in.Backward = true
		}
		e.Step(dt, in)

		ref, _ := e.Reference()
		p, _ := e.Position("player")
		require.Equal(t, p, ref, "reference must be published before followers read it")
	}
	assert.Greater(t, departures, 4)
}

func TestEngineFollowerKeepsTargetWhenReferenceMoves(t *testing.T) {
	e := newTestEngine(t)
	dt := 1.0 / 60

	e.Step(dt, Directional{})
	s, _ := e.Snapshot("ada")
	require.Equal(t, LeashMoving, s.LeashMode)
	target := s.LeashTarget

	for i := 0; i < 20; i++ {
		e.Step(dt, Directional{Forward: true, Left: true})
		s, _ = e.Snapshot("ada")
		if s.LeashMode != LeashMoving {
			break
		}
		require.Equal(t, target, s.LeashTarget)
	}
}

func TestEngineTrackedAIAgentLeashesAroundHome(t *testing.T) {
	e := NewEngine(Config{WorldSize: 40, Seed: 9})
	require.NoError(t, e.AddAgent(AgentSpec{ID: "lead", Mode: AIControlled, Position: mgl64.Vec2{5, 5}}))
	require.NoError(t, e.Track("lead"))

	home := mgl64.Vec2{5, 5}
	e.Subscribe(EventDeparted, func(ev Event) {
		s, _ := e.Snapshot(ev.AgentID)
		require.LessOrEqual(t, s.LeashTarget.Sub(home).Len(), LeashRadius+1e-9)
	})
	for i := 0; i < 60*60; i++ {
		e.Step(1.0/60, Directional{})
	}
}

func TestEngineAIArrivalSchedulesPause(t *testing.T) {
	e := newTestEngine(t)
	var arrivals []Event
	e.Subscribe(EventArrived, func(ev Event) { arrivals = append(arrivals, ev) })

	for i := 0; i < 60*30 && len(arrivals) == 0; i++ {
		e.Step(1.0/60, Directional{})
	}
	require.NotEmpty(t, arrivals)
	a := arrivals[0]
	i := e.indexOf(a.AgentID)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, LeashIdle, e.agents[i].Leash.Mode)
	assert.Greater(t, e.agents[i].Leash.NextDecision, a.Time)
}

func TestEngineWorkingAtStation(t *testing.T) {
	e := NewEngine(Config{WorldSize: 20, Points: []PointOfInterest{
		{Label: "desk", Position: mgl64.Vec2{1, 1}, Radius: 3},
	}})
	require.NoError(t, e.AddAgent(AgentSpec{ID: "player", Position: mgl64.Vec2{0, 0}}))

	var changes []Event
	e.Subscribe(EventActivityChanged, func(ev Event) { changes = append(changes, ev) })

	e.Step(1.0/60, Directional{})
	s, _ := e.Snapshot("player")
	assert.Equal(t, ActivityWorking, s.Activity)
	assert.Equal(t, "desk", s.Station)
	assert.Equal(t, BranchWorking, s.Pose.Branch)
	require.Len(t, changes, 1)
	assert.Equal(t, "desk", changes[0].Label)

	// Walking ignores the station.
	e.Step(1.0/60, Directional{Forward: true})
	s, _ = e.Snapshot("player")
	assert.True(t, s.Moving)
	assert.Equal(t, ActivityIdle, s.Activity)
	assert.Equal(t, BranchWalk, s.Pose.Branch)
	assert.Len(t, changes, 2)
}

func TestEngineEmitsFootfalls(t *testing.T) {
	e := newTestEngine(t)
	sides := map[int]int{}
	e.Subscribe(EventFootfall, func(ev Event) {
		if ev.AgentID == "player" {
			sides[ev.Side]++
		}
	})
	for i := 0; i < 180; i++ {
		e.Step(1.0/60, Directional{Forward: true})
	}
	assert.Positive(t, sides[0])
	assert.Positive(t, sides[1])
}

func TestEngineSetControlModeDiscardsLeash(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 30; i++ {
		e.Step(1.0/60, Directional{})
	}
	require.NoError(t, e.SetControlMode("ada", PlayerControlled))
	i := e.indexOf("ada")
	assert.Equal(t, NewLeashState(), e.agents[i].Leash)
	assert.Equal(t, PlayerMaxSpeed, e.agents[i].MaxSpeed)

	require.NoError(t, e.SetControlMode("ada", AIControlled))
	assert.Equal(t, AIMaxSpeed, e.agents[i].MaxSpeed)
	assert.Equal(t, e.agents[i].Position, e.agents[i].Home)
}

func TestEngineRemoveTrackedClearsReference(t *testing.T) {
	e := newTestEngine(t)
	e.Step(1.0/60, Directional{})
	_, ok := e.Reference()
	require.True(t, ok)

	assert.True(t, e.RemoveAgent("player"))
	assert.False(t, e.RemoveAgent("player"))
	_, ok = e.Reference()
	assert.False(t, ok)
	assert.Empty(t, e.Tracked())
	assert.Equal(t, 2, e.Len())

	// Followers fall back to their homes.
	for i := 0; i < 600; i++ {
		e.Step(1.0/60, Directional{Forward: true})
	}
	assert.Equal(t, 2, len(e.Snapshots(nil)))
}

func TestEnginePlayerForwardRun(t *testing.T) {
	e := NewEngine(Config{WorldSize: 100})
	require.NoError(t, e.AddAgent(AgentSpec{ID: "player"}))

	prev := 0.0
	for i := 0; i < 120; i++ {
		e.Step(1.0/60, Directional{Forward: true})
		p, _ := e.Position("player")
		require.Greater(t, p[2], prev)
		prev = p[2]
	}
	s, _ := e.Snapshot("player")
	assert.InDelta(t, PlayerMaxSpeed, s.Speed, 1e-9)
	assert.Equal(t, BranchWalk, s.Pose.Branch)
}

func twoWalkers(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(Config{WorldSize: 20, Seed: 5})
	require.NoError(t, e.AddAgent(AgentSpec{ID: "a", Mode: AIControlled}))
	require.NoError(t, e.AddAgent(AgentSpec{ID: "b", Mode: AIControlled, Position: mgl64.Vec2{3, 0}}))
	return e
}

func TestEngineHandlersMayRemoveAndAddAgents(t *testing.T) {
	want := twoWalkers(t)
	want.Step(1.0/60, Directional{})
	wantB, _ := want.Snapshot("b")

	e := twoWalkers(t)
	spawned := false
	e.Subscribe(EventDeparted, func(ev Event) {
		switch {
		case ev.AgentID == "a":
			assert.True(t, e.RemoveAgent("a"))
		case ev.AgentID == "b" && !spawned:
			spawned = true
			require.NoError(t, e.AddAgent(AgentSpec{ID: "c", Mode: AIControlled, Position: mgl64.Vec2{-3, 0}}))
		}
	})
	require.NotPanics(t, func() { e.Step(1.0/60, Directional{}) })

	ids := []string{}
	for _, s := range e.Snapshots(nil) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "c"}, ids)

	// b's frame is not lost to the slice growing under it.
	gotB, ok := e.Snapshot("b")
	require.True(t, ok)
	assert.Equal(t, wantB, gotB)

	require.NotPanics(t, func() {
		for i := 0; i < 600; i++ {
			e.Step(1.0/60, Directional{})
		}
	})
}

func TestEngineHandlersRemovingOnArrival(t *testing.T) {
	e := newTestEngine(t)
	e.Subscribe(EventArrived, func(ev Event) {
		e.RemoveAgent(ev.AgentID)
	})
	require.NotPanics(t, func() {
		for i := 0; i < 60*60 && e.Len() > 1; i++ {
			e.Step(1.0/60, Directional{})
		}
	})
	assert.Equal(t, 1, e.Len())
	_, ok := e.Snapshot("player")
	assert.True(t, ok)
}

func TestEngineDeliversEventsAfterTheFrame(t *testing.T) {
	e := newTestEngine(t)
	var seen []Event
	e.Subscribe(EventDeparted, func(ev Event) {
		// Every agent has already stepped when handlers run.
		for _, s := range e.Snapshots(nil) {
			if s.Mode == AIControlled {
				assert.Equal(t, LeashMoving, s.LeashMode)
			}
		}
		assert.Equal(t, e.Time(), ev.Time)
		seen = append(seen, ev)
	})
	e.Step(1.0/60, Directional{})
	require.Len(t, seen, 2)
	assert.Equal(t, "ada", seen[0].AgentID)
	assert.Equal(t, "bo", seen[1].AgentID)
}

func TestEventBusFlushOrder(t *testing.T) {
	eb := NewEventBus()
	var got []string
	eb.Subscribe(EventArrived, func(ev Event) {
		got = append(got, ev.AgentID)
		if ev.AgentID == "x" {
			eb.Post(Event{Type: EventArrived, AgentID: "z"})
		}
	})
	eb.Post(Event{Type: EventArrived, AgentID: "x"})
	eb.Post(Event{Type: EventArrived, AgentID: "y"})
	assert.Empty(t, got)

	eb.Flush()
	assert.Equal(t, []string{"x", "y", "z"}, got)
	eb.Flush()
	assert.Len(t, got, 3)
}

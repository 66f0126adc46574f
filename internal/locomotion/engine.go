package locomotion

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrDuplicateAgent     = errors.New("duplicate agent id")
	ErrUnknownAgent       = errors.New("unknown agent")
	ErrUnknownControlMode = errors.New("unknown control mode")
)

// Config is the static configuration handed over at initialization.
type Config struct {
	WorldSize float64
	Points    []PointOfInterest
	Seed      uint64
}

// Engine owns every agent and advances them one frame at a time. It is
// not safe for concurrent use; the frame callback drives it.
type Engine struct {
	agents    []Agent
	awareness *Awareness
	beacon    Beacon
	bus       *EventBus
	rng       *Rand

	worldSize float64
	bound     float64
	tracked   string
	now       float64
}

func NewEngine(cfg Config) *Engine {
	size := cfg.WorldSize
	if size <= 0 {
		size = DefaultWorldSize
	}
	return &Engine{
		awareness: NewAwareness(cfg.Points),
		bus:       NewEventBus(),
		rng:       NewRand(cfg.Seed),
		worldSize: size,
		bound:     WorldBound(size),
	}
}

func (e *Engine) indexOf(id string) int {
	for i := range e.agents {
		if e.agents[i].ID == id {
			return i
		}
	}
	return -1
}

// AddAgent places a new agent, clamped onto the floor.
func (e *Engine) AddAgent(spec AgentSpec) error {
	if e.indexOf(spec.ID) >= 0 {
		return fmt.Errorf("add %q: %w", spec.ID, ErrDuplicateAgent)
	}
	pos := mgl64.Vec3{
		clampF(spec.Position[0], -e.bound, e.bound),
		FloorHeight,
		clampF(spec.Position[1], -e.bound, e.bound),
	}
	e.agents = append(e.agents, Agent{
		ID:   spec.ID,
		Mode: spec.Mode,
		Body: Body{
			Position: pos,
			Facing:   wrapAngle(spec.Facing),
			MaxSpeed: spec.Mode.MaxSpeed(),
		},
		Home:  pos,
		Leash: NewLeashState(),
		Blink: NewBlink(e.now, e.rng),
	})
	return nil
}

// RemoveAgent drops an agent and its leash state. Removing the tracked
// agent clears the published reference.
func (e *Engine) RemoveAgent(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	copy(e.agents[i:], e.agents[i+1:])
	e.agents = e.agents[:len(e.agents)-1]
	if id == e.tracked {
		e.tracked = ""
		e.beacon.Clear()
	}
	return true
}

// SetControlMode switches an agent between player and AI control. The old
// leash state is discarded and the speed cap follows the new mode.
func (e *Engine) SetControlMode(id string, mode ControlMode) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("set control mode %q: %w", id, ErrUnknownAgent)
	}
	a := &e.agents[i]
	a.Mode = mode
	a.MaxSpeed = mode.MaxSpeed()
	a.Leash = NewLeashState()
	a.Home = a.Position
	return nil
}

// Track designates the agent whose position is published as the
// reference for every other agent's leash.
func (e *Engine) Track(id string) error {
	i := e.indexOf(id)
	if i < 0 {
		return fmt.Errorf("track %q: %w", id, ErrUnknownAgent)
	}
	e.tracked = id
	e.beacon.Publish(e.agents[i].Position)
	return nil
}

func (e *Engine) Subscribe(t EventType, fn EventHandler) {
	e.bus.Subscribe(t, fn)
}

// Step advances the simulation by one frame. The tracked agent moves and
// publishes first; every other agent then reads that snapshot. Events
// raised during the frame are delivered after every agent has stepped, so
// handlers may add, remove or retrack agents.
func (e *Engine) Step(dt float64, in Directional) {
	if dt > MaxFrameTime {
		dt = MaxFrameTime
	}
	e.now += dt

	ti := -1
	if e.tracked != "" {
		ti = e.indexOf(e.tracked)
	}
	if ti >= 0 {
		e.stepAgent(ti, dt, in)
		e.beacon.Publish(e.agents[ti].Position)
	}
	for i := range e.agents {
		if i != ti {
			e.stepAgent(i, dt, in)
		}
	}
	e.bus.Flush()
}

func (e *Engine) stepAgent(i int, dt float64, in Directional) {
	a := &e.agents[i]

	var m mgl64.Vec2
	switch a.Mode {
	case PlayerControlled:
		m = in.Intent()
	case AIControlled:
		center := ground(a.Home)
		if ref, ok := e.beacon.Snapshot(); ok && a.ID != e.tracked {
			center = ground(ref)
		}
		var tr Transition
		m, tr = a.Leash.Decide(ground(a.Position), center, e.now, e.rng, e.bound)
		switch tr {
		case TransitionDeparted:
			e.emit(a, EventDeparted, 0, "")
		case TransitionArrived:
			e.emit(a, EventArrived, 0, "")
		}
	}

	a.Moving = a.Step(m, dt, e.bound)

	activity, station := ActivityIdle, ""
	if !a.Moving {
		if act, poi, ok := e.awareness.Classify(ground(a.Position)); ok {
			activity, station = act, poi.Label
		}
	}
	if activity != a.Activity || station != a.Station {
		a.Activity, a.Station = activity, station
		e.emit(a, EventActivityChanged, 0, station)
	}

	prev := a.Pose
	a.Pose = Synthesize(a.Moving, a.Speed(), e.now, a.Activity)
	left, right := Footfall(prev, a.Pose)
	if left {
		e.emit(a, EventFootfall, 0, "")
	}
	if right {
		e.emit(a, EventFootfall, 1, "")
	}

	a.EyesClosed = a.Blink.Update(e.now, e.rng)
}

func (e *Engine) emit(a *Agent, t EventType, side int, label string) {
	e.bus.Post(Event{
		Type:    t,
		AgentID: a.ID,
		X:       a.Position[0],
		Z:       a.Position[2],
		Time:    e.now,
		Side:    side,
		Label:   label,
	})
}

// Snapshots appends one snapshot per agent to buf[:0] and returns it.
func (e *Engine) Snapshots(buf []Snapshot) []Snapshot {
	buf = buf[:0]
	for i := range e.agents {
		buf = append(buf, e.agents[i].snapshot())
	}
	return buf
}

// Snapshot returns the current view of one agent.
func (e *Engine) Snapshot(id string) (Snapshot, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return Snapshot{}, false
	}
	return e.agents[i].snapshot(), true
}

// Position returns an agent's current position.
func (e *Engine) Position(id string) (mgl64.Vec3, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return mgl64.Vec3{}, false
	}
	return e.agents[i].Position, true
}

// Reference returns the last position published by the tracked agent.
func (e *Engine) Reference() (mgl64.Vec3, bool) {
	return e.beacon.Snapshot()
}

func (e *Engine) Tracked() string           { return e.tracked }
func (e *Engine) Time() float64             { return e.now }
func (e *Engine) Bound() float64            { return e.bound }
func (e *Engine) WorldSize() float64        { return e.worldSize }
func (e *Engine) Points() []PointOfInterest { return e.awareness.Points() }
func (e *Engine) Len() int                  { return len(e.agents) }

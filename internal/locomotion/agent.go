package locomotion

import "github.com/go-gl/mathgl/mgl64"

// AgentSpec describes an agent at scene composition time.
type AgentSpec struct {
	ID       string
	Mode     ControlMode
	Position mgl64.Vec2 // ground-plane x, z
	Facing   float64
}

// Agent is one simulated humanoid. Agents are stored by value in the
// engine and only mutated inside Engine.Step.
type Agent struct {
	ID   string
	Mode ControlMode
	Body

	Home  mgl64.Vec3 // leash center when no reference is published
	Leash LeashState
	Blink Blink

	Pose       Pose
	Moving     bool
	Activity   Activity
	Station    string
	EyesClosed bool
}

// Snapshot is the read-only per-frame view handed to collaborators.
type Snapshot struct {
	ID         string
	Mode       ControlMode
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Facing     float64
	Speed      float64
	Moving     bool
	Activity   Activity
	Station    string
	Pose       Pose
	EyesClosed bool

	LeashMode   LeashMode
	LeashTarget mgl64.Vec2
}

func (a *Agent) snapshot() Snapshot {
	return Snapshot{
		ID:          a.ID,
		Mode:        a.Mode,
		Position:    a.Position,
		Velocity:    a.Velocity,
		Facing:      a.Facing,
		Speed:       a.Speed(),
		Moving:      a.Moving,
		Activity:    a.Activity,
		Station:     a.Station,
		Pose:        a.Pose,
		EyesClosed:  a.EyesClosed,
		LeashMode:   a.Leash.Mode,
		LeashTarget: a.Leash.Target,
	}
}

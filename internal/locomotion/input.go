package locomotion

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type ControlMode int

const (
	PlayerControlled ControlMode = iota
	AIControlled
)

func (m ControlMode) String() string {
	switch m {
	case PlayerControlled:
		return "player"
	case AIControlled:
		return "ai"
	default:
		return fmt.Sprintf("ControlMode(%d)", int(m))
	}
}

// ParseControlMode accepts the names produced by String.
func ParseControlMode(s string) (ControlMode, error) {
	switch s {
	case "player":
		return PlayerControlled, nil
	case "ai":
		return AIControlled, nil
	}
	return 0, fmt.Errorf("control mode %q: %w", s, ErrUnknownControlMode)
}

// MaxSpeed returns the speed cap for agents in this mode.
func (m ControlMode) MaxSpeed() float64 {
	if m == AIControlled {
		return AIMaxSpeed
	}
	return PlayerMaxSpeed
}

// Directional holds the four independent key-style flags for the player.
type Directional struct {
	Forward, Backward, Left, Right bool
}

// Intent sums the active flags into a ground-plane (x, z) vector and
// normalizes it. Forward is +z; left is +x for an agent facing +z.
// Opposing flags cancel out to the zero vector.
func (d Directional) Intent() mgl64.Vec2 {
	var v mgl64.Vec2
	if d.Forward {
		v[1]++
	}
	if d.Backward {
		v[1]--
	}
	if d.Left {
		v[0]++
	}
	if d.Right {
		v[0]--
	}
	if v[0] == 0 && v[1] == 0 {
		return v
	}
	return v.Normalize()
}

func (d Directional) Any() bool {
	return d.Forward || d.Backward || d.Left || d.Right
}

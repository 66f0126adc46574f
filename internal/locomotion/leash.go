package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type LeashMode int

const (
	LeashIdle LeashMode = iota
	LeashMoving
)

func (m LeashMode) String() string {
	if m == LeashMoving {
		return "moving"
	}
	return "idle"
}

// Transition reports what a Decide call changed.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionDeparted
	TransitionArrived
)

// LeashState drives an AI agent through an idle/moving cycle around a
// leash center. A chosen target is kept until the agent arrives, even if
// the center moves in the meantime.
type LeashState struct {
	Mode          LeashMode
	Target        mgl64.Vec2
	NextDecision  float64
	ArrivalRadius float64
	Radius        float64
}

func NewLeashState() LeashState {
	return LeashState{
		Mode:          LeashIdle,
		ArrivalRadius: ArrivalRadius,
		Radius:        LeashRadius,
	}
}

// Decide returns the movement intent for this frame: zero while idle or on
// arrival, otherwise the unit vector from pos toward the target. Arrival
// needs the agent strictly inside ArrivalRadius. A bound
// above zero keeps new targets inside the world square.
func (l *LeashState) Decide(pos, center mgl64.Vec2, now float64, r *Rand, bound float64) (mgl64.Vec2, Transition) {
	tr := TransitionNone
	if l.Mode == LeashIdle {
		if now < l.NextDecision {
			return mgl64.Vec2{}, TransitionNone
		}
		l.Target = l.pickTarget(center, r, bound)
		l.Mode = LeashMoving
		tr = TransitionDeparted
	}

	delta := l.Target.Sub(pos)
	dist := delta.Len()
	if dist < l.ArrivalRadius {
		if tr == TransitionDeparted {
			// Picked a target underfoot; arrival registers next frame so
			// the departure is still observable.
			return mgl64.Vec2{}, tr
		}
		l.Mode = LeashIdle
		l.NextDecision = now + r.RangeF(PauseMin, PauseMax)
		return mgl64.Vec2{}, TransitionArrived
	}
	return delta.Mul(1 / dist), tr
}

func (l *LeashState) pickTarget(center mgl64.Vec2, r *Rand, bound float64) mgl64.Vec2 {
	angle := r.RangeF(0, 2*math.Pi)
	dist := r.RangeF(0, l.Radius)
	t := center.Add(mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(dist))
	if bound > 0 {
		// The center is inside the square, so clamping only pulls the
		// target closer to it.
		t[0] = clampF(t[0], -bound, bound)
		t[1] = clampF(t[1], -bound, bound)
	}
	return t
}

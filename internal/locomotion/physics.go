package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the single point mass the integrator moves. Position and
// Velocity keep y fixed; all motion happens on the x/z plane.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Facing   float64 // radians, 0 faces +z, wrapped to (-π, π]
	MaxSpeed float64
}

// Speed is the current velocity magnitude.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// Step integrates one frame under movement intent m (unit length or zero)
// and keeps the body inside [-bound, bound] on x and z. It reports whether
// the body is still moving after the stop snap.
func (b *Body) Step(m mgl64.Vec2, dt, bound float64) bool {
	if dt > MaxFrameTime {
		dt = MaxFrameTime
	}
	driving := m[0] != 0 || m[1] != 0
	dir := lift(m, 0)
	v := b.Velocity

	if driving {
		v = v.Add(dir.Mul(Accel * dt))

		target := math.Atan2(m[0], m[1])
		b.Facing = wrapAngle(b.Facing + AngleDiff(b.Facing, target)*dt*TurnRate)
	}

	// Only the velocity the intent sustains escapes friction: perpendicular
	// drift and anything opposing the intent decay like a coasting body.
	decay := math.Exp(-Friction * dt)
	if along := v.Dot(dir); driving && along > 0 {
		kept := dir.Mul(along)
		v = kept.Add(v.Sub(kept).Mul(decay))
	} else {
		v = v.Mul(decay)
	}

	if s := v.Len(); s > b.MaxSpeed {
		v = v.Mul(b.MaxSpeed / s)
	}
	if !driving && v.Len() < StopSpeed {
		v = mgl64.Vec3{}
	}
	v[1] = 0
	b.Velocity = v

	p := b.Position.Add(v.Mul(dt))
	p[0] = clampF(p[0], -bound, bound)
	p[2] = clampF(p[2], -bound, bound)
	b.Position = p

	return v.Len() >= StopSpeed
}

// WorldBound is the half-extent agents are clamped to for a square floor.
func WorldBound(worldSize float64) float64 {
	b := worldSize/2 - BoundMargin
	if b < 0 {
		return 0
	}
	return b
}

package locomotion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRespectsSpeedCapAndBounds(t *testing.T) {
	r := NewRand(7)
	bound := WorldBound(DefaultWorldSize)

	for _, maxSpeed := range []float64{PlayerMaxSpeed, AIMaxSpeed} {
		b := Body{MaxSpeed: maxSpeed}
		for i := 0; i < 20000; i++ {
			var m mgl64.Vec2
			if r.Intn(4) != 0 {
				a := r.RangeF(-math.Pi, math.Pi)
				m = mgl64.Vec2{math.Sin(a), math.Cos(a)}
			}
			dt := r.RangeF(0, 0.4)
			b.Step(m, dt, bound)

			require.LessOrEqual(t, b.Speed(), maxSpeed+1e-9, "frame %d", i)
			require.LessOrEqual(t, math.Abs(b.Position[0]), bound, "frame %d", i)
			require.LessOrEqual(t, math.Abs(b.Position[2]), bound, "frame %d", i)
			require.Zero(t, b.Velocity[1])
		}
	}
}

func TestStepFrictionConverges(t *testing.T) {
	for _, fps := range []float64{30, 60, 144} {
		b := Body{Velocity: mgl64.Vec3{3, 0, -2}, MaxSpeed: PlayerMaxSpeed}
		dt := 1 / fps
		frames := int(math.Ceil(5 * (1 / Friction) * fps))
		for i := 0; i < frames; i++ {
			b.Step(mgl64.Vec2{}, dt, 1000)
		}
		assert.Less(t, b.Speed(), 1e-3, "fps %v", fps)
	}
}

func TestStepFrictionIsFrameRateIndependent(t *testing.T) {
	coast := func(fps float64) float64 {
		b := Body{Velocity: mgl64.Vec3{4, 0, 0}, MaxSpeed: PlayerMaxSpeed}
		n := int(0.2 * fps)
		for i := 0; i < n; i++ {
			b.Step(mgl64.Vec2{}, 1/fps, 1000)
		}
		return b.Speed()
	}
	want := 4 * math.Exp(-Friction*0.2)
	assert.InDelta(t, want, coast(60), 1e-9)
	assert.InDelta(t, want, coast(120), 1e-9)
}

func TestStepStopSnap(t *testing.T) {
	b := Body{Velocity: mgl64.Vec3{0.04, 0, 0}, MaxSpeed: PlayerMaxSpeed}
	moving := b.Step(mgl64.Vec2{}, 1.0/60, 10)
	assert.False(t, moving)
	assert.Equal(t, mgl64.Vec3{}, b.Velocity)
}

func TestStepClampsLongFrames(t *testing.T) {
	b := Body{MaxSpeed: PlayerMaxSpeed}
	b.Step(mgl64.Vec2{0, 1}, 5, 100)

	assert.InDelta(t, Accel*MaxFrameTime, b.Speed(), 1e-9)
	assert.InDelta(t, Accel*MaxFrameTime*MaxFrameTime, b.Position[2], 1e-9)
}

func TestStepTurnsThroughWraparound(t *testing.T) {
	b := Body{Facing: 3.0, MaxSpeed: PlayerMaxSpeed}
	target := -3.0
	dt := 1.0 / 60
	b.Step(mgl64.Vec2{math.Sin(target), math.Cos(target)}, dt, 100)

	short := 2*math.Pi - 6.0
	assert.InDelta(t, 0.28, short, 0.005)
	assert.InDelta(t, 3.0+short*dt*TurnRate, b.Facing, 1e-9)
}

func TestStepTurnNeverExceedsPi(t *testing.T) {
	r := NewRand(99)
	for i := 0; i < 5000; i++ {
		b := Body{Facing: r.RangeF(-math.Pi, math.Pi), MaxSpeed: PlayerMaxSpeed}
		a := r.RangeF(-math.Pi, math.Pi)
		before := b.Facing
		b.Step(mgl64.Vec2{math.Sin(a), math.Cos(a)}, r.RangeF(0, 1), 100)

		turn := math.Abs(AngleDiff(before, b.Facing))
		want := math.Abs(AngleDiff(before, a)) * math.Min(MaxFrameTime, 1) * TurnRate
		require.LessOrEqual(t, turn, math.Pi+1e-9)
		require.LessOrEqual(t, turn, want+1e-9)
	}
}

func TestForwardRunSaturates(t *testing.T) {
	b := Body{MaxSpeed: PlayerMaxSpeed}
	m := Directional{Forward: true}.Intent()
	dt := 1.0 / 60

	prevZ := b.Position[2]
	for i := 0; i < 120; i++ {
		require.True(t, b.Step(m, dt, 1000))
		require.Greater(t, b.Position[2], prevZ, "frame %d", i)
		require.Zero(t, b.Position[0])
		prevZ = b.Position[2]
	}
	assert.InDelta(t, PlayerMaxSpeed, b.Speed(), 1e-9)
	assert.Zero(t, b.Facing)
}

func TestWorldBound(t *testing.T) {
	assert.Equal(t, 9.5, WorldBound(20))
	assert.Equal(t, 0.0, WorldBound(0.5))
}

package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"walkabout/internal/locomotion"
)

type CameraMode int

const (
	ThirdPerson CameraMode = iota
	FirstPerson
)

func (m CameraMode) String() string {
	if m == FirstPerson {
		return "first-person"
	}
	return "third-person"
}

const (
	FollowDistance = 4.5
	FollowHeight   = 2.2
	FollowLookAt   = 1.1
	FollowEase     = 4.0 // 1/s
	FovYDeg        = 60
	NearPlane      = 0.05
	FarPlane       = 200
)

// Camera follows the tracked agent. Third person trails behind the agent's
// eased facing; first person sits at the eyes and looks along the gaze.
type Camera struct {
	Mode   CameraMode
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Yaw    float64

	// Step jolt for first person.
	ShakeY         float64
	ShakeTimer     float64
	ShakeIntensity float64

	primed bool
}

func NewCamera() *Camera {
	return &Camera{Mode: ThirdPerson}
}

func (c *Camera) Toggle() {
	if c.Mode == ThirdPerson {
		c.Mode = FirstPerson
	} else {
		c.Mode = ThirdPerson
	}
}

// AddShake triggers a jolt with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays the jolt and picks a fresh vertical offset.
func (c *Camera) UpdateShake(dt float64, r *locomotion.Rand) {
	if c.ShakeTimer <= 0 {
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer -= dt
	if c.ShakeTimer < 0 {
		c.ShakeTimer = 0
	}
	t := c.ShakeTimer
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeY = -r.RangeF(0, mag)
}

// Follow moves the camera for one frame.
func (c *Camera) Follow(s locomotion.Snapshot, sk *Skeleton, dt float64) {
	if !c.primed {
		c.Yaw = s.Facing
		c.primed = true
	} else {
		k := 1 - math.Exp(-FollowEase*dt)
		c.Yaw += locomotion.AngleDiff(c.Yaw, s.Facing) * k
	}

	if c.Mode == FirstPerson {
		c.Eye = sk.Eye().Add(mgl64.Vec3{0, c.ShakeY, 0})
		c.Target = c.Eye.Add(sk.Gaze)
		return
	}

	fwd := mgl64.Vec3{math.Sin(c.Yaw), 0, math.Cos(c.Yaw)}
	c.Eye = s.Position.Sub(fwd.Mul(FollowDistance)).Add(mgl64.Vec3{0, FollowHeight, 0})
	c.Target = s.Position.Add(mgl64.Vec3{0, FollowLookAt, 0})
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(vec32(c.Eye), vec32(c.Target), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection(fbW, fbH int) mgl32.Mat4 {
	aspect := float32(1)
	if fbH > 0 {
		aspect = float32(fbW) / float32(fbH)
	}
	return mgl32.Perspective(mgl32.DegToRad(FovYDeg), aspect, NearPlane, FarPlane)
}

func (c *Camera) ViewProjection(fbW, fbH int) mgl32.Mat4 {
	return c.Projection(fbW, fbH).Mul4(c.View())
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

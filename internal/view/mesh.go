package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"walkabout/internal/locomotion"
)

// VertexFloats is the per-vertex layout of line buffers:
// x, y, z, r, g, b, a.
const VertexFloats = 7

const (
	GridStep      = 1.0
	RingSegments  = 32
	HeadSegments  = 12
	EyeMark       = 0.018
	TargetMarker  = 0.15
	RingLift      = 0.01
	ClosedEyeDrop = 0.005
)

// Lines accumulates line-list vertices for one frame. The buffer is reused
// across frames to avoid per-frame allocations.
type Lines struct {
	Buf []float32
}

func (l *Lines) Reset() { l.Buf = l.Buf[:0] }

// Vertices returns the number of vertices in the buffer.
func (l *Lines) Vertices() int { return len(l.Buf) / VertexFloats }

func (l *Lines) Segment(a, b mgl64.Vec3, c RGB) {
	r, g, bl := c.Floats()
	l.Buf = append(l.Buf,
		float32(a[0]), float32(a[1]), float32(a[2]), r, g, bl, 1,
		float32(b[0]), float32(b[1]), float32(b[2]), r, g, bl, 1,
	)
}

// Circle draws a closed polyline of radius around center in the plane
// spanned by unit vectors u and v.
func (l *Lines) Circle(center, u, v mgl64.Vec3, radius float64, segments int, c RGB) {
	if segments < 3 {
		segments = 3
	}
	prev := center.Add(u.Mul(radius))
	for i := 1; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		p := center.Add(u.Mul(math.Cos(a) * radius)).Add(v.Mul(math.Sin(a) * radius))
		l.Segment(prev, p, c)
		prev = p
	}
}

// Ring draws a horizontal circle on the floor.
func (l *Lines) Ring(center mgl64.Vec2, radius float64, c RGB) {
	at := mgl64.Vec3{center[0], locomotion.FloorHeight + RingLift, center[1]}
	l.Circle(at, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, radius, RingSegments, c)
}

func (l *Lines) Cross(p mgl64.Vec3, size float64, c RGB) {
	l.Segment(p.Add(mgl64.Vec3{-size, 0, 0}), p.Add(mgl64.Vec3{size, 0, 0}), c)
	l.Segment(p.Add(mgl64.Vec3{0, 0, -size}), p.Add(mgl64.Vec3{0, 0, size}), c)
}

// Grid draws the floor lines and the world border.
func (l *Lines) Grid(worldSize float64, c, border RGB) {
	half := worldSize / 2
	y := locomotion.FloorHeight
	n := int(math.Floor(worldSize / GridStep))
	for i := 1; i < n; i++ {
		o := -half + float64(i)*GridStep
		l.Segment(mgl64.Vec3{o, y, -half}, mgl64.Vec3{o, y, half}, c)
		l.Segment(mgl64.Vec3{-half, y, o}, mgl64.Vec3{half, y, o}, c)
	}
	corners := [4]mgl64.Vec3{{-half, y, -half}, {half, y, -half}, {half, y, half}, {-half, y, half}}
	for i := range corners {
		l.Segment(corners[i], corners[(i+1)%4], border)
	}
}

// Skeleton draws bones, a head outline and the eyes. Closed eyes are drawn
// as short horizontal strokes.
func (l *Lines) Skeleton(sk *Skeleton, body RGB, withHead bool) {
	for _, b := range Bones {
		l.Segment(sk.Joints[b[0]], sk.Joints[b[1]], body)
	}
	if !withHead {
		return
	}
	l.Circle(sk.Joints[JointHead], sk.Gaze, sk.Up, HeadRadius, HeadSegments, Palette.Head)
	for _, j := range [2]Joint{JointEyeL, JointEyeR} {
		e := sk.Joints[j]
		if sk.EyesClosed {
			e = e.Sub(sk.Up.Mul(ClosedEyeDrop))
			l.Segment(e.Sub(sk.Side.Mul(EyeMark)), e.Add(sk.Side.Mul(EyeMark)), Palette.Eye)
		} else {
			l.Segment(e.Sub(sk.Up.Mul(EyeMark)), e.Add(sk.Up.Mul(EyeMark)), Palette.Eye)
		}
	}
}

// Frame fills l with everything visible this frame. The tracked agent's
// head is left out when the camera sits inside it.
func (l *Lines) Frame(snaps []locomotion.Snapshot, points []locomotion.PointOfInterest, worldSize float64, tracked string, cam CameraMode) {
	l.Reset()
	l.Grid(worldSize, Palette.GridLine, Palette.Border)

	busy := make(map[string]bool, len(points))
	for i := range snaps {
		if snaps[i].Activity == locomotion.ActivityWorking {
			busy[snaps[i].Station] = true
		}
	}
	for _, p := range points {
		c := Palette.Station
		if busy[p.Label] {
			c = Palette.StationBusy
		}
		l.Ring(p.Position, p.Reach(), c)
	}

	for i := range snaps {
		s := &snaps[i]
		sk := Pose(*s)
		c := agentColor(s)
		l.Skeleton(&sk, c, !(s.ID == tracked && cam == FirstPerson))
		if s.Mode == locomotion.AIControlled && s.LeashMode == locomotion.LeashMoving {
			t := mgl64.Vec3{s.LeashTarget[0], locomotion.FloorHeight + RingLift, s.LeashTarget[1]}
			l.Cross(t, TargetMarker, Palette.LeashTarget)
		}
	}
}

func agentColor(s *locomotion.Snapshot) RGB {
	switch {
	case s.Mode == locomotion.PlayerControlled:
		return Palette.Player
	case s.Activity == locomotion.ActivityWorking:
		return Palette.AgentWork
	case !s.Moving:
		return Palette.Agent.Mul(200)
	default:
		return Palette.Agent
	}
}

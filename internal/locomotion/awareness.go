package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Activity int

const (
	ActivityIdle Activity = iota
	ActivityWorking
)

func (a Activity) String() string {
	if a == ActivityWorking {
		return "working"
	}
	return "idle"
}

// PointOfInterest is a labelled station on the floor. Radius is the
// engagement distance; zero means EngagementRadius.
type PointOfInterest struct {
	Label    string
	Position mgl64.Vec2
	Radius   float64
}

// Reach is the effective engagement distance.
func (p PointOfInterest) Reach() float64 {
	if p.Radius > 0 {
		return p.Radius
	}
	return EngagementRadius
}

// Awareness classifies positions against a fixed set of points of interest.
type Awareness struct {
	points  []PointOfInterest
	root    *quadNode
	scratch []int
}

func NewAwareness(points []PointOfInterest) *Awareness {
	a := &Awareness{points: append([]PointOfInterest(nil), points...)}
	if len(a.points) == 0 {
		return a
	}
	all := RectF{X0: math.Inf(1), Z0: math.Inf(1), X1: math.Inf(-1), Z1: math.Inf(-1)}
	for _, p := range a.points {
		b := p.area()
		all.X0 = math.Min(all.X0, b.X0)
		all.Z0 = math.Min(all.Z0, b.Z0)
		all.X1 = math.Max(all.X1, b.X1)
		all.Z1 = math.Max(all.Z1, b.Z1)
	}
	a.root = newQuadNode(all, 0)
	for i, p := range a.points {
		a.root.insert(i, p.area())
	}
	return a
}

func (p PointOfInterest) area() RectF {
	r := p.Reach()
	return RectF{
		X0: p.Position[0] - r, Z0: p.Position[1] - r,
		X1: p.Position[0] + r, Z1: p.Position[1] + r,
	}
}

// Points returns the configured points of interest.
func (a *Awareness) Points() []PointOfInterest {
	return a.points
}

// Classify reports ActivityWorking when pos is within reach of any point.
// The returned point is the closest engaged one.
func (a *Awareness) Classify(pos mgl64.Vec2) (Activity, PointOfInterest, bool) {
	if a.root == nil {
		return ActivityIdle, PointOfInterest{}, false
	}
	a.scratch = a.root.query(RectF{X0: pos[0], Z0: pos[1], X1: pos[0], Z1: pos[1]}, a.scratch[:0])

	best := -1
	bestDist := math.Inf(1)
	for _, i := range a.scratch {
		p := a.points[i]
		d := p.Position.Sub(pos).Len()
		if d <= p.Reach() && d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return ActivityIdle, PointOfInterest{}, false
	}
	return ActivityWorking, a.points[best], true
}

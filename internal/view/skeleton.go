// Package view turns locomotion snapshots into drawable geometry. It has no
// GL dependency so it can be exercised from plain tests.
package view

import (
	"github.com/go-gl/mathgl/mgl64"

	"walkabout/internal/locomotion"
)

// Body proportions in world units.
const (
	PelvisHeight = 0.95
	ThighLen     = 0.47
	ShinLen      = 0.48
	HipHalfWidth = 0.1
	SpineLen     = 0.5
	ShoulderHalf = 0.2
	UpperArmLen  = 0.3
	ForearmLen   = 0.28
	NeckLen      = 0.1
	HeadRadius   = 0.12
	EyeSpacing   = 0.045
)

type Joint int

const (
	JointPelvis Joint = iota
	JointNeck
	JointHead
	JointHipL
	JointKneeL
	JointFootL
	JointHipR
	JointKneeR
	JointFootR
	JointShoulderL
	JointElbowL
	JointHandL
	JointShoulderR
	JointElbowR
	JointHandR
	JointEyeL
	JointEyeR
	JointCount
)

// Bones lists the joint pairs drawn as line segments.
var Bones = [...][2]Joint{
	{JointPelvis, JointNeck},
	{JointNeck, JointHead},
	{JointPelvis, JointHipL},
	{JointHipL, JointKneeL},
	{JointKneeL, JointFootL},
	{JointPelvis, JointHipR},
	{JointHipR, JointKneeR},
	{JointKneeR, JointFootR},
	{JointNeck, JointShoulderL},
	{JointShoulderL, JointElbowL},
	{JointElbowL, JointHandL},
	{JointNeck, JointShoulderR},
	{JointShoulderR, JointElbowR},
	{JointElbowR, JointHandR},
}

// Skeleton holds the world-space joint positions of one posed agent.
type Skeleton struct {
	Joints [JointCount]mgl64.Vec3

	// Head frame axes in world space, for gaze and eye drawing.
	Gaze mgl64.Vec3
	Up   mgl64.Vec3
	Side mgl64.Vec3 // toward the agent's left

	EyesClosed bool
}

func (s *Skeleton) At(j Joint) mgl64.Vec3 { return s.Joints[j] }

// Eye is the midpoint between the eyes.
func (s *Skeleton) Eye() mgl64.Vec3 {
	return s.Joints[JointEyeL].Add(s.Joints[JointEyeR]).Mul(0.5)
}

// Pose runs forward kinematics for a snapshot. The agent faces +z in its
// local frame with +x to its left; facing rotates that frame about +y.
func Pose(s locomotion.Snapshot) Skeleton {
	p := s.Pose
	var sk Skeleton
	sk.EyesClosed = s.EyesClosed

	root := mgl64.Translate3D(s.Position[0], locomotion.FloorHeight+p.Bob, s.Position[2]).
		Mul4(mgl64.HomogRotate3DY(s.Facing)).
		Mul4(mgl64.Translate3D(p.Sway, 0, 0))

	pelvis := root.Mul4(mgl64.Translate3D(0, PelvisHeight, 0))
	sk.Joints[JointPelvis] = origin(pelvis)

	torso := pelvis.Mul4(mgl64.HomogRotate3DY(p.TorsoYaw)).Mul4(mgl64.HomogRotate3DZ(p.TorsoRoll))
	neck := torso.Mul4(mgl64.Translate3D(0, SpineLen*(1+p.Breath), 0))
	sk.Joints[JointNeck] = origin(neck)

	head := neck.
		Mul4(mgl64.HomogRotate3DY(p.HeadYaw)).
		Mul4(mgl64.HomogRotate3DX(p.HeadPitch)).
		Mul4(mgl64.HomogRotate3DZ(p.HeadRoll)).
		Mul4(mgl64.Translate3D(0, NeckLen+HeadRadius, 0))
	sk.Joints[JointHead] = origin(head)
	sk.Joints[JointEyeL] = point(head, EyeSpacing, 0.02, HeadRadius)
	sk.Joints[JointEyeR] = point(head, -EyeSpacing, 0.02, HeadRadius)
	sk.Gaze = axis(head, 0, 0, 1)
	sk.Up = axis(head, 0, 1, 0)
	sk.Side = axis(head, 1, 0, 0)

	leg := func(side, hip, knee float64, jh, jk, jf Joint) {
		h := pelvis.Mul4(mgl64.Translate3D(side*HipHalfWidth, 0, 0))
		sk.Joints[jh] = origin(h)
		thigh := h.Mul4(mgl64.HomogRotate3DX(-hip))
		shin := thigh.Mul4(mgl64.Translate3D(0, -ThighLen, 0)).Mul4(mgl64.HomogRotate3DX(knee))
		sk.Joints[jk] = origin(shin)
		sk.Joints[jf] = point(shin, 0, -ShinLen, 0)
	}
	leg(1, p.HipL, p.KneeL, JointHipL, JointKneeL, JointFootL)
	leg(-1, p.HipR, p.KneeR, JointHipR, JointKneeR, JointFootR)

	arm := func(side, shoulder, yaw, elbow float64, js, je, jh Joint) {
		sh := torso.Mul4(mgl64.Translate3D(side*ShoulderHalf, SpineLen*(1+p.Breath), 0))
		sk.Joints[js] = origin(sh)
		upper := sh.Mul4(mgl64.HomogRotate3DY(yaw)).Mul4(mgl64.HomogRotate3DX(-shoulder))
		fore := upper.Mul4(mgl64.Translate3D(0, -UpperArmLen, 0)).Mul4(mgl64.HomogRotate3DX(-elbow))
		sk.Joints[je] = origin(fore)
		sk.Joints[jh] = point(fore, 0, -ForearmLen, 0)
	}
	arm(1, p.ShoulderL, p.ArmYawL, p.ElbowL, JointShoulderL, JointElbowL, JointHandL)
	arm(-1, p.ShoulderR, p.ArmYawR, p.ElbowR, JointShoulderR, JointElbowR, JointHandR)

	return sk
}

func origin(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

func point(m mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	return m.Mul4x1(mgl64.Vec4{x, y, z, 1}).Vec3()
}

func axis(m mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	return m.Mul4x1(mgl64.Vec4{x, y, z, 0}).Vec3().Normalize()
}

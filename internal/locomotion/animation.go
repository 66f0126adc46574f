package locomotion

import "math"

// Branch names the animation branch a pose was produced by.
type Branch int

const (
	BranchWalk Branch = iota
	BranchWorking
	BranchLookAround
	BranchHeadTilt
	BranchIdleSway
)

func (b Branch) String() string {
	switch b {
	case BranchWalk:
		return "walk"
	case BranchWorking:
		return "working"
	case BranchLookAround:
		return "look-around"
	case BranchHeadTilt:
		return "head-tilt"
	default:
		return "idle-sway"
	}
}

// Pose is one frame of joint angles (radians) and body offsets (units).
// Positive hip and shoulder angles swing the limb forward; positive knee and
// elbow angles flex the joint; positive head pitch looks down.
type Pose struct {
	Branch Branch

	HipL, HipR   float64
	KneeL, KneeR float64

	ShoulderL, ShoulderR float64
	ArmYawL, ArmYawR     float64
	ElbowL, ElbowR       float64

	HeadPitch, HeadYaw, HeadRoll float64

	TorsoRoll float64
	TorsoYaw  float64

	Bob    float64 // vertical body offset
	Sway   float64 // lateral body offset
	Breath float64 // chest expansion
}

// Synthesize builds the pose for simulation time t. It is a pure function
// of its arguments; activity only matters while standing still.
func Synthesize(moving bool, speed, t float64, activity Activity) Pose {
	if moving {
		return walkPose(speed, t)
	}
	if activity == ActivityWorking {
		return workingPose(t)
	}
	return idlePose(t)
}

func walkPose(speed, t float64) Pose {
	omega := speed * StrideGain
	ph := t * omega

	var p Pose
	p.Branch = BranchWalk
	p.HipL = math.Sin(ph) * HipSwing
	p.HipR = math.Sin(ph+math.Pi) * HipSwing

	// Each knee flexes only while its hip swings forward (cos(ph) > 0 for
	// the left leg), so the stance leg stays straight.
	p.KneeL = math.Max(0, math.Sin(ph+math.Pi/2)) * KneeGain
	p.KneeR = math.Max(0, math.Sin(ph+math.Pi+math.Pi/2)) * KneeGain

	// Each arm is in antiphase with its own-side leg, which puts it in
	// phase with the opposing leg: left arm forward with the right leg.
	p.ShoulderL = math.Sin(ph+math.Pi) * ArmSwing
	p.ShoulderR = math.Sin(ph) * ArmSwing
	p.ElbowL = ElbowCarry
	p.ElbowR = ElbowCarry

	p.Bob = math.Sin(2*ph) * WalkBob
	p.Sway = math.Sin(2*ph+math.Pi/2) * WalkSway
	p.TorsoRoll = -p.Sway
	p.HeadPitch = WalkHeadLevel
	return p
}

func workingPose(t float64) Pose {
	var p Pose
	p.Branch = BranchWorking
	p.HeadPitch = WorkHeadPitch

	p.ShoulderL = WorkShoulder
	p.ShoulderR = WorkShoulder
	tremor := 2 * math.Pi * WorkTremorHz * t
	p.ElbowL = WorkElbow + math.Sin(tremor)*WorkTremorAmp
	p.ElbowR = WorkElbow + math.Sin(tremor*1.37+1.1)*WorkTremorAmp
	p.ArmYawL = math.Sin(2*math.Pi*WorkArmYawLHz*t) * WorkArmYawAmp
	p.ArmYawR = math.Sin(2*math.Pi*WorkArmYawRHz*t+0.8) * WorkArmYawAmp
	return p
}

func idlePose(t float64) Pose {
	var p Pose
	p.Breath = breath(t)
	p.Bob = p.Breath * 0.5
	p.TorsoRoll = math.Sin(2*math.Pi*MicroSwayHz*t) * MicroSwayAmp
	p.ShoulderL = RestShoulder
	p.ShoulderR = RestShoulder
	p.ElbowL = RestElbow
	p.ElbowR = RestElbow

	p.Branch = FidgetAt(t)
	m := math.Mod(t, FidgetPeriod)
	switch p.Branch {
	case BranchLookAround:
		// One full left-right sweep over the segment, zero at both ends.
		p.HeadYaw = math.Sin(m/LookAroundEnd*2*math.Pi) * LookAroundYaw
	case BranchHeadTilt:
		span := HeadTiltEnd - HeadTiltStart
		p.HeadRoll = math.Sin((m-HeadTiltStart)/span*math.Pi) * HeadTiltRoll
	default:
		s := math.Sin(2 * math.Pi * IdleSwayHz * t)
		p.Sway = s * IdleSwayAmp
		p.TorsoYaw = s * IdleSwayYawAmp
	}
	return p
}

// FidgetAt returns the idle fidget segment scheduled for time t.
func FidgetAt(t float64) Branch {
	m := math.Mod(t, FidgetPeriod)
	switch {
	case m < LookAroundEnd:
		return BranchLookAround
	case m >= HeadTiltStart && m < HeadTiltEnd:
		return BranchHeadTilt
	default:
		return BranchIdleSway
	}
}

// breath sums two slow sinusoids so the rhythm never looks mechanical.
func breath(t float64) float64 {
	return math.Sin(2*math.Pi*BreathFastHz*t)*BreathFastAmp +
		math.Sin(2*math.Pi*BreathSlowHz*t)*BreathSlowAmp
}

// Footfall reports heel strikes between two consecutive walk poses: a knee
// returning to full extension ends that leg's swing.
func Footfall(prev, cur Pose) (left, right bool) {
	if prev.Branch != BranchWalk || cur.Branch != BranchWalk {
		return false, false
	}
	return prev.KneeL > 0 && cur.KneeL == 0, prev.KneeR > 0 && cur.KneeR == 0
}

// Blink schedules eye closures on the simulation clock.
type Blink struct {
	closedUntil float64
	next        float64
}

// NewBlink schedules the first blink a random gap after t.
func NewBlink(t float64, r *Rand) Blink {
	return Blink{next: t + r.RangeF(BlinkMinGap, BlinkMaxGap)}
}

// Update advances the schedule to t and reports whether the eyes are closed.
func (b *Blink) Update(t float64, r *Rand) bool {
	if t >= b.next {
		b.closedUntil = t + BlinkDuration
		b.next = t + r.RangeF(BlinkMinGap, BlinkMaxGap)
	}
	return t < b.closedUntil
}

// Next is the time of the next scheduled blink.
func (b *Blink) Next() float64 {
	return b.next
}

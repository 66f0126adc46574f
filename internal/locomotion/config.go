package locomotion

// Integrator tuning.
const (
	MaxFrameTime   = 0.1  // seconds; longer frames are absorbed by clamping
	Accel          = 15.0 // units/s²
	Friction       = 10.0 // exponential decay rate, 1/s
	TurnRate       = 10.0 // facing damping factor
	StopSpeed      = 0.05 // below this with no intent, velocity snaps to zero
	PlayerMaxSpeed = 4.0
	AIMaxSpeed     = 2.5
	BoundMargin    = 0.5 // keeps agents this far inside the floor edge
)

// World defaults.
const (
	DefaultWorldSize = 20.0
	FloorHeight      = 0.0
)

// Leash behaviour.
const (
	ArrivalRadius = 0.5
	LeashRadius   = 4.0
	PauseMin      = 2.0 // seconds of deliberation after arriving
	PauseMax      = 5.0
)

// Spatial awareness.
const (
	EngagementRadius = 3.0
	PoiQuadCapacity  = 8
	PoiQuadMaxDepth  = 6
)

// Gait.
const (
	StrideGain    = 4.5 // walk-cycle frequency per unit of speed
	HipSwing      = 0.55
	KneeGain      = 0.9
	ArmSwing      = 0.45
	ElbowCarry    = 0.25
	WalkBob       = 0.045
	WalkSway      = 0.03
	WalkHeadLevel = 0.05
)

// Idle and working poses.
const (
	BreathFastHz  = 0.28
	BreathSlowHz  = 0.11
	BreathFastAmp = 0.012
	BreathSlowAmp = 0.006
	MicroSwayHz   = 0.07
	MicroSwayAmp  = 0.018

	WorkHeadPitch  = 0.35
	WorkShoulder   = 0.7
	WorkElbow      = 1.25
	WorkTremorHz   = 6.0
	WorkTremorAmp  = 0.03
	WorkArmYawAmp  = 0.12
	WorkArmYawLHz  = 0.09
	WorkArmYawRHz  = 0.13
	RestShoulder   = 0.05
	RestElbow      = 0.12
	LookAroundYaw  = 0.65
	HeadTiltRoll   = 0.22
	IdleSwayHz     = 0.14
	IdleSwayAmp    = 0.025
	IdleSwayYawAmp = 0.06
)

// Fidget schedule, keyed on t mod FidgetPeriod.
const (
	FidgetPeriod  = 8.0
	LookAroundEnd = 2.0
	HeadTiltStart = 5.0
	HeadTiltEnd   = 6.0
)

// Blinking.
const (
	BlinkDuration = 0.15
	BlinkMinGap   = 2.0
	BlinkMaxGap   = 6.0
)

package game

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "walkabout"
)

// Line buffer capacity in vertices; the buffer grows past this on demand.
const MaxLineVertices = 32768

// First-person step jolt.
const (
	StepShake    = 0.012
	StepShakeDur = 0.12
)

// Audio.
const (
	SFXVolume       = 0.5
	FootstepVolume  = 0.35
	ChimeVolume     = 0.4
	MaxVoices       = 12
	AudioPollPeriod = 10 // ms between IsPlaying checks
)

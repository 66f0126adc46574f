// Package audio synthesises the procedural effects the viewer plays:
// footsteps panned by where the foot lands, and a short chime when an agent
// starts or stops working. Output is interleaved stereo float32 LE.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"walkabout/internal/locomotion"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	FrameBytes   = 8
)

const (
	FootstepDur  = 0.09
	FootstepHz   = 70.0
	ChimeDur     = 0.32
	ChimeLowHz   = 523.25
	ChimeHighHz  = 783.99
	HearingRange = 6.0 // distance at which gain halves
	MinGain      = 0.02
)

// Spatial returns the stereo pan in [-1, 1] (positive is right) and the
// distance gain for a sound at src heard by a listener at pos with the
// given yaw. Yaw 0 faces +z, which puts the listener's right on -x.
func Spatial(pos mgl64.Vec3, yaw float64, src mgl64.Vec3) (pan, gain float64) {
	rel := src.Sub(pos)
	rel[1] = 0
	d := rel.Len()
	gain = 1 / (1 + (d/HearingRange)*(d/HearingRange))
	if d < 1e-6 {
		return 0, gain
	}
	right := mgl64.Vec3{-math.Cos(yaw), 0, math.Sin(yaw)}
	pan = clampF(rel.Dot(right)/d, -1, 1)
	return pan, gain
}

// Footstep renders one heel strike. Seed varies the noise so repeated steps
// do not sound identical; side nudges the pitch to tell the feet apart.
func Footstep(seed uint64, side int, pan, gain float64) []byte {
	n := int(FootstepDur * SampleRate)
	buf := makeBuf(n)
	if gain < MinGain {
		return buf
	}
	hz := FootstepHz
	if side == 1 {
		hz *= 1.06
	}
	noise := locomotion.NewRand(seed)
	lg, rg := panGains(pan)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := envelope(p, 0.02, 0.3, 0.25, 0.5)

		thump := math.Sin(2*math.Pi*hz*t*(1-0.4*p)) * math.Exp(-p*6)
		lp += (noise.RangeF(-1, 1) - lp) * 0.18
		click := lp * math.Exp(-p*18)

		s := softSat((thump*0.8+click*0.6)*env) * gain
		putStereoF32LR(buf, i, s*lg, s*rg)
	}
	return buf
}

// Chime renders a two-note FM bell, rising when start is true.
func Chime(start bool, pan, gain float64) []byte {
	n := int(ChimeDur * SampleRate)
	buf := makeBuf(n)
	first, second := ChimeLowHz, ChimeHighHz
	if !start {
		first, second = second, first
	}
	lg, rg := panGains(pan)
	half := n / 2
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		hz, local, span := first, i, half
		if i >= half {
			hz, local, span = second, i-half, n-half
		}
		p := float64(local) / float64(span)
		env := envelope(p, 0.04, 0.3, 0.4, 0.5)
		s := softSat(bell(t, hz, 2.0, 1.2*(1-p))*env*0.5) * gain
		putStereoF32LR(buf, i, s*lg, s*rg)
	}
	return buf
}

// panGains is a constant-power pan law.
func panGains(pan float64) (l, r float64) {
	a := (clampF(pan, -1, 1) + 1) * math.Pi / 4
	return math.Cos(a), math.Sin(a)
}

// putStereoF32LR writes one interleaved float32 LE frame.
func putStereoF32LR(buf []byte, i int, left, right float64) {
	binary.LittleEndian.PutUint32(buf[i*FrameBytes:], math.Float32bits(float32(left)))
	binary.LittleEndian.PutUint32(buf[i*FrameBytes+4:], math.Float32bits(float32(right)))
}

// softSat is a smooth saturator: unity slope at 0, bounded by ±1.
func softSat(x float64) float64 {
	return math.Tanh(x)
}

// envelope is a linear attack/decay/sustain/release shape over progress
// in [0, 1]; the stage lengths are fractions of the whole sound.
func envelope(p, attack, decay, sustain, release float64) float64 {
	switch {
	case p < attack:
		return p / attack
	case p < attack+decay:
		return 1 - (1-sustain)*(p-attack)/decay
	case p < 1-release:
		return sustain
	case p < 1:
		return sustain * (1 - p) / release
	default:
		return 0
	}
}

// bell is a two-operator FM voice.
func bell(t, hz, ratio, index float64) float64 {
	return math.Sin(2*math.Pi*hz*t + index*math.Sin(2*math.Pi*hz*ratio*t))
}

func makeBuf(n int) []byte { return make([]byte, n*FrameBytes) }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

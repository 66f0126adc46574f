package game

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/oto/v2"

	"walkabout/internal/audio"
	"walkabout/internal/locomotion"
)

// Listener reports where the camera hears from: position and yaw.
type Listener func() (mgl64.Vec3, float64)

// Audio plays synthesised effects through oto. A nil *Audio is silent.
type Audio struct {
	ctx    *oto.Context
	ready  chan struct{}
	voices int32
	steps  uint64
}

func NewAudio() (*Audio, error) {
	ctx, ready, err := oto.NewContext(audio.SampleRate, audio.ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	return &Audio{ctx: ctx, ready: ready}, nil
}

// Attach subscribes footstep and activity sounds to engine events.
func (a *Audio) Attach(eng *locomotion.Engine, ear Listener) {
	if a == nil {
		return
	}
	eng.Subscribe(locomotion.EventFootfall, func(ev locomotion.Event) {
		pos, yaw := ear()
		pan, gain := audio.Spatial(pos, yaw, mgl64.Vec3{ev.X, locomotion.FloorHeight, ev.Z})
		if gain < audio.MinGain {
			return
		}
		seed := atomic.AddUint64(&a.steps, 1) * 0x9E3779B97F4A7C15
		a.play(audio.Footstep(seed, ev.Side, pan, gain), FootstepVolume)
	})
	eng.Subscribe(locomotion.EventActivityChanged, func(ev locomotion.Event) {
		pos, yaw := ear()
		pan, gain := audio.Spatial(pos, yaw, mgl64.Vec3{ev.X, locomotion.FloorHeight, ev.Z})
		if gain < audio.MinGain {
			return
		}
		a.play(audio.Chime(ev.Label != "", pan, gain), ChimeVolume)
	})
}

func (a *Audio) play(samples []byte, volume float64) {
	select {
	case <-a.ready:
	default:
		return
	}
	if len(samples) == 0 {
		return
	}
	// At most MaxVoices play at once.
	if atomic.AddInt32(&a.voices, 1) > MaxVoices {
		atomic.AddInt32(&a.voices, -1)
		return
	}
	go func() {
		defer atomic.AddInt32(&a.voices, -1)
		reader := &soundReader{data: samples}
		player := a.ctx.NewPlayer(reader)
		player.SetVolume(SFXVolume * volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(AudioPollPeriod * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Package game is the desktop viewer: a glfw window rendering the engine's
// agents as GL line skeletons, with procedural audio through oto.
package game

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"walkabout/internal/locomotion"
	"walkabout/internal/view"
)

type Options struct {
	Seed        uint64
	FirstPerson bool
}

// RunDesktop opens the window and drives eng until the window closes.
func RunDesktop(eng *locomotion.Engine, opts Options, logger *log.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	logger.Debug("gl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	snd, err := NewAudio()
	if err != nil {
		logger.Warn("audio init failed, continuing without sound", "err", err)
		snd = nil
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	sr, sg, sb := view.Palette.Sky.Floats()
	gl.ClearColor(sr, sg, sb, 1.0)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	cam := view.NewCamera()
	if opts.FirstPerson {
		cam.Mode = view.FirstPerson
	}
	shake := locomotion.NewRand(opts.Seed ^ 0x5EED)
	input := NewInput()

	eng.Subscribe(locomotion.EventFootfall, func(ev locomotion.Event) {
		if ev.AgentID == eng.Tracked() && cam.Mode == view.FirstPerson {
			cam.AddShake(StepShake, StepShakeDur)
		}
	})
	eng.Subscribe(locomotion.EventActivityChanged, func(ev locomotion.Event) {
		logger.Debug("activity", "agent", ev.AgentID, "station", ev.Label)
	})
	snd.Attach(eng, func() (mgl64.Vec3, float64) { return cam.Eye, cam.Yaw })

	// Reusable frame buffers.
	var lines view.Lines
	lines.Buf = make([]float32, 0, MaxLineVertices*view.VertexFloats)
	var snaps []locomotion.Snapshot

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > locomotion.MaxFrameTime {
			dt = locomotion.MaxFrameTime
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		snaps = eng.Snapshots(snaps[:0])
		handleKeys(window, input, eng, cam, snaps, logger)

		eng.Step(dt, Directional(window))

		if s, ok := eng.Snapshot(eng.Tracked()); ok {
			sk := view.Pose(s)
			cam.UpdateShake(dt, shake)
			cam.Follow(s, &sk, dt)
		}

		snaps = eng.Snapshots(snaps[:0])
		lines.Frame(snaps, eng.Points(), eng.WorldSize(), eng.Tracked(), cam.Mode)

		rend.BeginFrame(fbW, fbH)
		rend.DrawLines(cam.ViewProjection(fbW, fbH), lines.Buf)
		window.SwapBuffers()
	}
	return nil
}

func handleKeys(window *glfw.Window, input *Input, eng *locomotion.Engine, cam *view.Camera, snaps []locomotion.Snapshot, logger *log.Logger) {
	if input.JustPressed(window, glfw.KeyV) {
		cam.Toggle()
		logger.Info("camera", "mode", cam.Mode)
	}
	if input.JustPressed(window, glfw.KeyTab) {
		if id := nextAgent(snaps, eng.Tracked()); id != "" {
			if err := eng.Track(id); err != nil {
				logger.Warn("track", "agent", id, "err", err)
			} else {
				logger.Info("tracking", "agent", id)
			}
		}
	}
	if input.JustPressed(window, glfw.KeyP) {
		id := eng.Tracked()
		if s, ok := eng.Snapshot(id); ok {
			mode := locomotion.PlayerControlled
			if s.Mode == locomotion.PlayerControlled {
				mode = locomotion.AIControlled
			}
			if err := eng.SetControlMode(id, mode); err != nil {
				logger.Warn("control mode", "agent", id, "err", err)
			} else {
				logger.Info("control mode", "agent", id, "mode", mode)
			}
		}
	}
}

// nextAgent returns the agent after cur in snapshot order, wrapping around.
func nextAgent(snaps []locomotion.Snapshot, cur string) string {
	if len(snaps) == 0 {
		return ""
	}
	for i := range snaps {
		if snaps[i].ID == cur {
			return snaps[(i+1)%len(snaps)].ID
		}
	}
	return snaps[0].ID
}

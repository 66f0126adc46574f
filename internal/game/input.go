package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"walkabout/internal/locomotion"
)

type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{
		prevKeys: make(map[glfw.Key]bool),
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Directional samples the movement keys. WASD and the arrow keys are
// equivalent.
func Directional(window *glfw.Window) locomotion.Directional {
	down := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	return locomotion.Directional{
		Forward:  down(glfw.KeyW, glfw.KeyUp),
		Backward: down(glfw.KeyS, glfw.KeyDown),
		Left:     down(glfw.KeyA, glfw.KeyLeft),
		Right:    down(glfw.KeyD, glfw.KeyRight),
	}
}

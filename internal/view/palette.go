package view

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func (c RGB) Add(dr, dg, db int) RGB {
	return RGB{R: clamp8(int(c.R) + dr), G: clamp8(int(c.G) + dg), B: clamp8(int(c.B) + db)}
}

// Floats returns the colour in 0..1 range for vertex buffers.
func (c RGB) Floats() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

var Palette = struct {
	Sky         RGB
	Floor       RGB
	GridLine    RGB
	Border      RGB
	Player      RGB
	Agent       RGB
	AgentWork   RGB
	Head        RGB
	Eye         RGB
	Station     RGB
	StationBusy RGB
	LeashTarget RGB
	LeashRing   RGB
}{
	Sky:         RGB{R: 30, G: 34, B: 44},
	Floor:       RGB{R: 60, G: 66, B: 79},
	GridLine:    RGB{R: 86, G: 89, B: 98},
	Border:      RGB{R: 214, G: 190, B: 153},
	Player:      RGB{R: 255, G: 200, B: 90},
	Agent:       RGB{R: 195, G: 174, B: 142},
	AgentWork:   RGB{R: 140, G: 170, B: 210},
	Head:        RGB{R: 216, G: 210, B: 191},
	Eye:         RGB{R: 20, G: 20, B: 24},
	Station:     RGB{R: 120, G: 150, B: 85},
	StationBusy: RGB{R: 160, G: 210, B: 110},
	LeashTarget: RGB{R: 255, G: 150, B: 70},
	LeashRing:   RGB{R: 104, G: 108, B: 112},
}

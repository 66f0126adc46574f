// Package scene loads YAML scene descriptions and composes a configured
// locomotion engine from them.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"walkabout/internal/locomotion"
)

//go:embed default.yaml
var defaultScene []byte

var (
	ErrNoAgents       = errors.New("scene has no agents")
	ErrEmptyID        = errors.New("agent id is empty")
	ErrUnknownTracked = errors.New("tracked agent not declared")
	ErrWorldTooSmall  = errors.New("world too small")
)

type Scene struct {
	WorldSize float64    `yaml:"world_size"`
	Seed      uint64     `yaml:"seed"`
	Tracked   string     `yaml:"tracked"`
	Points    []Point    `yaml:"points_of_interest"`
	Agents    []AgentDef `yaml:"agents"`
}

type Point struct {
	Label    string     `yaml:"label"`
	Position [2]float64 `yaml:"position"`
	Radius   float64    `yaml:"radius"`
}

type AgentDef struct {
	ID        string     `yaml:"id"`
	Control   string     `yaml:"control"`
	Position  [2]float64 `yaml:"position"`
	FacingDeg float64    `yaml:"facing_deg"`
}

// Load reads and validates a scene file.
func Load(path string) (Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, err
	}
	s, err := Parse(raw)
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Default returns the built-in office scene.
func Default() Scene {
	s, err := Parse(defaultScene)
	if err != nil {
		panic(fmt.Errorf("default scene: %w", err))
	}
	return s
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(raw []byte) (Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Scene{}, fmt.Errorf("scene yaml: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

func (s *Scene) applyDefaults() {
	if s.WorldSize == 0 {
		s.WorldSize = locomotion.DefaultWorldSize
	}
	for i := range s.Points {
		if s.Points[i].Radius <= 0 {
			s.Points[i].Radius = locomotion.EngagementRadius
		}
	}
	for i := range s.Agents {
		if s.Agents[i].Control == "" {
			s.Agents[i].Control = locomotion.AIControlled.String()
		}
	}
}

func (s Scene) Validate() error {
	if s.WorldSize <= 2*locomotion.BoundMargin {
		return fmt.Errorf("world_size %v: %w", s.WorldSize, ErrWorldTooSmall)
	}
	if len(s.Agents) == 0 {
		return ErrNoAgents
	}
	seen := make(map[string]bool, len(s.Agents))
	for i, a := range s.Agents {
		if a.ID == "" {
			return fmt.Errorf("agent %d: %w", i, ErrEmptyID)
		}
		if seen[a.ID] {
			return fmt.Errorf("agent %q: %w", a.ID, locomotion.ErrDuplicateAgent)
		}
		seen[a.ID] = true
		if _, err := locomotion.ParseControlMode(a.Control); err != nil {
			return fmt.Errorf("agent %q: %w", a.ID, err)
		}
	}
	if s.Tracked != "" && !seen[s.Tracked] {
		return fmt.Errorf("tracked %q: %w", s.Tracked, ErrUnknownTracked)
	}
	return nil
}

// PointsOfInterest converts the scene's stations to engine points.
func (s Scene) PointsOfInterest() []locomotion.PointOfInterest {
	out := make([]locomotion.PointOfInterest, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, locomotion.PointOfInterest{
			Label:    p.Label,
			Position: mgl64.Vec2{p.Position[0], p.Position[1]},
			Radius:   p.Radius,
		})
	}
	return out
}

// Build composes an engine with every declared agent and the tracked
// reference designated.
func (s Scene) Build() (*locomotion.Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	e := locomotion.NewEngine(locomotion.Config{
		WorldSize: s.WorldSize,
		Points:    s.PointsOfInterest(),
		Seed:      s.Seed,
	})
	for _, a := range s.Agents {
		mode, err := locomotion.ParseControlMode(a.Control)
		if err != nil {
			return nil, err
		}
		err = e.AddAgent(locomotion.AgentSpec{
			ID:       a.ID,
			Mode:     mode,
			Position: mgl64.Vec2{a.Position[0], a.Position[1]},
			Facing:   mgl64.DegToRad(a.FacingDeg),
		})
		if err != nil {
			return nil, err
		}
	}
	if s.Tracked != "" {
		if err := e.Track(s.Tracked); err != nil {
			return nil, err
		}
	}
	return e, nil
}

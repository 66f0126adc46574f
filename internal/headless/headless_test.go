package headless

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkabout/internal/locomotion"
	"walkabout/internal/scene"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func TestDefaultSceneSoak(t *testing.T) {
	eng, err := scene.Default().Build()
	require.NoError(t, err)

	sum, err := Run(context.Background(), eng, Options{Frames: 3000, DT: 1.0 / 60}, quiet())
	require.NoError(t, err)
	assert.Equal(t, 3000, sum.Frames)
	assert.InDelta(t, 50, sum.SimTime, 1e-6)
	assert.Positive(t, sum.Departures)
	assert.Positive(t, sum.Arrivals)
	assert.LessOrEqual(t, sum.Arrivals, sum.Departures)
	for id, v := range sum.PeakSpeed {
		s, ok := eng.Snapshot(id)
		require.True(t, ok)
		assert.LessOrEqual(t, v, s.Mode.MaxSpeed()+speedSlack, id)
	}
}

func TestPlayerDrivenIntoWall(t *testing.T) {
	eng := locomotion.NewEngine(locomotion.Config{WorldSize: 6, Seed: 9})
	require.NoError(t, eng.AddAgent(locomotion.AgentSpec{ID: "p", Mode: locomotion.PlayerControlled}))
	require.NoError(t, eng.Track("p"))

	sum, err := Run(context.Background(), eng, Options{
		Frames: 300,
		DT:     1.0 / 30,
		Input:  locomotion.Directional{Forward: true, Left: true},
	}, quiet())
	require.NoError(t, err)
	assert.InDelta(t, locomotion.PlayerMaxSpeed, sum.PeakSpeed["p"], 1e-9)
	assert.Positive(t, sum.Footfalls)

	p, _ := eng.Position("p")
	assert.Equal(t, mgl64.Vec3{eng.Bound(), 0, eng.Bound()}, p)
}

func TestRunStopsOnCancel(t *testing.T) {
	eng, err := scene.Default().Build()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, eng, Options{Frames: 10, DT: 0.016}, quiet())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Frames)
}

func TestCheckFlagsViolations(t *testing.T) {
	ok := locomotion.Snapshot{ID: "a", Mode: locomotion.AIControlled, Speed: locomotion.AIMaxSpeed}
	assert.NoError(t, check(&ok, 5))

	fast := ok
	fast.Speed = locomotion.AIMaxSpeed + 0.01
	assert.ErrorIs(t, check(&fast, 5), ErrInvariant)

	out := ok
	out.Position = mgl64.Vec3{5.1, 0, 0}
	assert.ErrorIs(t, check(&out, 5), ErrInvariant)

	up := ok
	up.Position = mgl64.Vec3{0, 0.2, 0}
	assert.ErrorIs(t, check(&up, 5), ErrInvariant)
}

func TestStatusLines(t *testing.T) {
	eng, err := scene.Default().Build()
	require.NoError(t, err)
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	_, err = Run(context.Background(), eng, Options{Frames: 20, DT: 0.016, LogEvery: 10}, logger)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "simulation done")
	assert.Equal(t, 2*eng.Len(), bytes.Count(buf.Bytes(), []byte(" id=")))
}

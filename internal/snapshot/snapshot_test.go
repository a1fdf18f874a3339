package snapshot

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/internal/assets"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/recipe"
)

func runner(t *testing.T, cfg config.SnapshotConfig, recipes ...*recipe.Recipe) *Runner {
	t.Helper()
	c, err := assets.Builtin()
	require.NoError(t, err)
	sim := pour.New(config.Default().Simulation, c)
	r, err := New(cfg, sim, recipe.NewPlaylist(recipes))
	require.NoError(t, err)
	return r
}

func smallConfig(t *testing.T) config.SnapshotConfig {
	return config.SnapshotConfig{
		Width:       24,
		Height:      24,
		Supersample: 1,
		Frames:      500,
		Every:       100,
		FPS:         60,
		OutputDir:   t.TempDir(),
	}
}

func TestRunPoursEachRecipe(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Animate = true
	r := runner(t, cfg,
		&recipe.Recipe{Name: "Highball", Glass: "highball glass", HasIce: true},
		&recipe.Recipe{Name: "Shot", Glass: "shot glass"},
	)

	res, err := r.Run()
	require.NoError(t, err)

	assert.Len(t, res.Frames, 10)
	assert.Equal(t, 2, res.Fills)
	assert.Equal(t, 2, res.Chores)
	for _, p := range res.Frames {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	require.NotEmpty(t, res.Animation)
	_, err = os.Stat(res.Animation)
	assert.NoError(t, err)
}

func TestRunWritesEveryNthTick(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Frames = 30
	cfg.Every = 7
	r := runner(t, cfg)

	res, err := r.Run()
	require.NoError(t, err)
	assert.Len(t, res.Frames, 4)
	assert.Empty(t, res.Animation)
}

func TestNewRejectsBadConfig(t *testing.T) {
	c, err := assets.Builtin()
	require.NoError(t, err)
	sim := pour.New(config.Default().Simulation, c)
	pl := recipe.NewPlaylist(nil)

	for _, cfg := range []config.SnapshotConfig{
		{Width: 0, Height: 10, FPS: 60, Frames: 1},
		{Width: 10, Height: 10, FPS: 0, Frames: 1},
		{Width: 10, Height: 10, FPS: 60, Frames: 0},
	} {
		_, err := New(cfg, sim, pl)
		assert.Error(t, err, "%+v", cfg)
	}
}

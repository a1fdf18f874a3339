package term

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/internal/assets"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/recipe"
)

const step = time.Second / 60

func newModel(t *testing.T, recipes ...*recipe.Recipe) Model {
	t.Helper()
	c, err := assets.Builtin()
	require.NoError(t, err)
	sim := pour.New(config.Default().Simulation, c)
	m, err := New(sim, recipe.NewPlaylist(recipes), step)
	require.NoError(t, err)
	return m
}

func count(grid [][]Cell, kind Cell) int {
	n := 0
	for _, row := range grid {
		for _, c := range row {
			if c == kind {
				n++
			}
		}
	}
	return n
}

func tick(m Model, n int) Model {
	for i := 0; i < n; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(Model)
	}
	return m
}

func key(m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSectionEmptyVessel(t *testing.T) {
	c, err := assets.Builtin()
	require.NoError(t, err)
	v, err := c.Vessel("rocks glass")
	require.NoError(t, err)

	s := NewSection(v, 12)
	grid := s.Grid(30, Frame{})
	require.Len(t, grid, 12)
	assert.Len(t, grid[0], 30)
	assert.Greater(t, count(grid, CellWall), 0)
	assert.Zero(t, count(grid, CellLiquid))

	// Headroom above the rim stays clear.
	for _, c := range grid[0] {
		assert.Equal(t, CellEmpty, c)
	}
}

func TestSectionFillsWithLiquid(t *testing.T) {
	m := newModel(t, &recipe.Recipe{Name: "old fashioned", Glass: "rocks glass", HasIce: true})
	m = tick(m, 200)

	f := m.sim.Fill()
	require.InDelta(t, 1, f.Current(), 1e-6)
	s := NewSection(m.sim.Vessel(), 16)
	full := s.Grid(40, Frame{Fill: 1, Body: f.Body()})
	half := s.Grid(40, Frame{Fill: 0.5, Body: f.Body()})
	assert.Greater(t, count(full, CellLiquid), count(half, CellLiquid))
	assert.Greater(t, count(half, CellLiquid), 0)
}

func TestSectionShowsLandedIce(t *testing.T) {
	m := newModel(t, &recipe.Recipe{Name: "Highball", Glass: "highball glass", HasIce: true})
	m = tick(m, 400)

	setup := m.sim.Choreographer().Current()
	require.NotNil(t, setup)
	f := m.sim.Fill()
	grid := NewSection(m.sim.Vessel(), 18).Grid(40, Frame{
		Fill:       f.Current(),
		Body:       f.Body(),
		Inclusions: m.sim.Choreographer().Registry().Owned(setup.Owner),
	})
	assert.Greater(t, count(grid, CellIce), 0)
}

func TestModelKeys(t *testing.T) {
	m := newModel(t,
		&recipe.Recipe{Name: "first", Glass: "rocks glass"},
		&recipe.Recipe{Name: "second", Glass: "shot glass"},
	)

	m, _ = key(m, runes("5"))
	assert.InDelta(t, 0.5, m.sim.Fill().Target(), 1e-6)
	m, _ = key(m, runes("0"))
	assert.InDelta(t, 1, m.sim.Fill().Target(), 1e-6)

	m, _ = key(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.sim.Paused())
	m, _ = key(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.sim.Paused())

	m, _ = key(m, runes("n"))
	sel, ok := m.sim.Selection()
	require.True(t, ok)
	assert.Equal(t, "second", sel.Name)

	m, cmd := key(m, runes("q"))
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestViewTitleCases(t *testing.T) {
	m := newModel(t, &recipe.Recipe{Name: "old fashioned", Glass: "rocks glass"})
	m = tick(m, 5)
	view := m.View()
	assert.Contains(t, view, "Old Fashioned")
	assert.Contains(t, view, "Rocks Glass")
	assert.Contains(t, view, "│")
	assert.True(t, strings.Contains(view, "pouring") || strings.Contains(view, "poured"))
}

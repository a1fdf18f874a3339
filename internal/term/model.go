// Package term previews a pour in the terminal: a bubbletea program ticks
// the simulation and draws a cross-section of the vessel on stage.
package term

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/recipe"
)

const (
	defaultWidth = 48
	sectionRows  = 18
)

type tickMsg time.Time

// sectionCache keeps the sampled section across model copies.
type sectionCache struct {
	section *Section
}

func tickCmd(step time.Duration) tea.Cmd {
	return tea.Tick(step, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the terminal preview.
type Model struct {
	sim      *pour.Simulation
	playlist *recipe.Playlist
	step     time.Duration
	cache    *sectionCache
	width    int
	quitting bool
	err      error
	title    cases.Caser
}

// New creates a model ticking sim every step and pours the playlist's first
// recipe.
func New(sim *pour.Simulation, playlist *recipe.Playlist, step time.Duration) (Model, error) {
	m := Model{
		sim:      sim,
		playlist: playlist,
		step:     step,
		cache:    &sectionCache{},
		width:    defaultWidth,
		title:    cases.Title(language.English),
	}
	if err := sim.PourRecipe(playlist.Current()); err != nil {
		return m, fmt.Errorf("pouring %s: %w", playlist.Current().Name, err)
	}
	return m, nil
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.step), tea.SetWindowTitle("pourglass"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.sim.Tick(m.step.Seconds())
		return m, tickCmd(m.step)

	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		if m.width < 16 {
			m.width = 16
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ":
		if m.sim.Paused() {
			m.sim.Resume()
		} else {
			m.sim.Pause()
		}
	case "n":
		next := m.playlist.Next()
		if err := m.sim.PourRecipe(next); err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
	case "r":
		m.sim.Replay()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			level := float32(key[0]-'0') / 10
			if key == "0" {
				level = 1
			}
			m.sim.SetFillTarget(level)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sel, ok := m.sim.Selection()
	if !ok {
		return "\n  nothing poured\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("pourglass") + "\n\n")
	b.WriteString("  " + titleStyle.Render(m.title.String(sel.Name)) + "  ")
	b.WriteString(subtitleStyle.Render(m.title.String(sel.Vessel)) + "\n\n")

	for _, line := range m.sectionLines(sel) {
		b.WriteString("  " + line + "\n")
	}

	status := "pouring"
	level := float32(0)
	if f := m.sim.Fill(); f != nil {
		level = f.Current()
		if f.Converged() {
			status = "poured"
		}
	}
	if m.sim.Paused() {
		status = "paused"
	}
	b.WriteString("\n  " + statusStyle.Render(fmt.Sprintf("%-8s fill %3.0f%%   %d/%d",
		status, level*100, m.playlist.Position()+1, m.playlist.Len())) + "\n\n")
	b.WriteString("  " + helpStyle.Render("space pause  1-9/0 fill  n next  r replay  q quit") + "\n")
	return b.String()
}

func (m Model) sectionLines(sel recipe.Selection) []string {
	v := m.sim.Vessel()
	setup := m.sim.Choreographer().Current()
	if v == nil || setup == nil {
		return nil
	}
	if m.cache.section == nil || m.cache.section.Vessel() != v {
		m.cache.section = NewSection(v, sectionRows)
	}

	f := m.sim.Fill()
	grid := m.cache.section.Grid(m.width, Frame{
		Offset:     setup.Group.Position,
		Fill:       f.Current(),
		Body:       f.Body(),
		Inclusions: m.sim.Choreographer().Registry().Owned(setup.Owner),
	})

	liquid := lipgloss.NewStyle().Foreground(lipgloss.Color(colorful.Color{
		R: float64(sel.Color[0]),
		G: float64(sel.Color[1]),
		B: float64(sel.Color[2]),
	}.Clamped().Hex()))

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = renderRow(row, liquid)
	}
	return lines
}

// renderRow styles runs of equal cells together.
func renderRow(row []Cell, liquid lipgloss.Style) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		run := strings.Repeat(string(glyph(row[i])), j-i)
		switch row[i] {
		case CellLiquid:
			b.WriteString(liquid.Render(run))
		case CellWall, CellBase:
			b.WriteString(glassStyle.Render(run))
		case CellIce:
			b.WriteString(iceStyle.Render(run))
		case CellGarnish:
			b.WriteString(garnishStyle.Render(run))
		default:
			b.WriteString(run)
		}
		i = j
	}
	return b.String()
}

func glyph(c Cell) rune {
	switch c {
	case CellWall:
		return '│'
	case CellBase:
		return '░'
	case CellLiquid:
		return '█'
	case CellIce:
		return '◆'
	case CellGarnish:
		return '●'
	}
	return ' '
}

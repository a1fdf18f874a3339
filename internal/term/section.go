package term

import (
	gomath "math"

	"github.com/Faultbox/pourglass/internal/choreo"
	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Cell classifies one character of the cross-section.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellWall
	CellBase
	CellLiquid
	CellIce
	CellGarnish
)

// headroom is the space above the rim, as a fraction of vessel height, kept
// visible so falling inclusions can be seen.
const headroom = 0.35

// cellAspect is a terminal cell's height over its width.
const cellAspect = 2

// Section is a vertical cut through a vessel on its centerline. Wall radii
// are sampled once per row.
type Section struct {
	vessel *vessel.Vessel
	rows   int
	bottom float32 // world y of the lowest row's lower edge
	rowH   float32
	walls  []float32 // outer radius per row, lowest row first
}

// NewSection samples v's wall radius for rows rows.
func NewSection(v *vessel.Vessel, rows int) *Section {
	if rows < 4 {
		rows = 4
	}
	s := &Section{
		vessel: v,
		rows:   rows,
		bottom: v.Bounds.Min.Y,
		rowH:   v.Height() * (1 + headroom) / float32(rows),
		walls:  make([]float32, rows),
	}
	p := vessel.NewProfiler(v)
	p.SafetyFactor = 1
	for r := range s.walls {
		s.walls[r] = p.RadiusAt(s.bottom + (float32(r)+0.5)*s.rowH)
	}
	return s
}

// Vessel returns the sectioned vessel.
func (s *Section) Vessel() *vessel.Vessel { return s.vessel }

// Rows returns the grid height.
func (s *Section) Rows() int { return s.rows }

// Frame is the dynamic state drawn over the section.
type Frame struct {
	Offset     math.Vec3 // vessel group position
	Fill       float32
	Body       *liquid.Body
	Inclusions []*choreo.Inclusion
}

// Grid rasterizes the section into rows of width cells, top row first.
func (s *Section) Grid(width int, f Frame) [][]Cell {
	v := s.vessel
	maxR := float32(0)
	for _, w := range s.walls {
		maxR = math.Max(maxR, w)
	}
	colW := s.rowH / cellAspect
	if need := 2 * maxR * 1.2 / float32(width); need > colW {
		colW = need
	}
	center := v.Bounds.Center()

	fillY := v.FillY(f.Fill)
	var profile vessel.Profile
	if f.Body != nil {
		profile = f.Body.Profile()
	}

	grid := make([][]Cell, s.rows)
	for out := range grid {
		row := make([]Cell, width)
		grid[out] = row

		r := s.rows - 1 - out
		// Row centre in the vessel frame.
		y := s.bottom + (float32(r)+0.5)*s.rowH - f.Offset.Y
		wall := s.wallAt(y)
		inFill := f.Fill > 0 && y >= v.FillBottomY() && y <= fillY
		var liquidR float32
		if inFill && len(profile) > 0 {
			liquidR = profile.RadiusAt((y - v.FillBottomY()) / v.LiquidHeight())
		}

		for c := range row {
			x := (float32(c)+0.5-float32(width)/2)*colW - f.Offset.X
			d := math.Abs(x)
			switch {
			case wall > 0 && math.Abs(d-wall) <= colW/2:
				row[c] = CellWall
			case inFill && d <= liquidR:
				row[c] = CellLiquid
			case wall > 0 && d < wall && y < v.FillBottomY():
				row[c] = CellBase
			}
		}
	}

	for _, inc := range f.Inclusions {
		if inc.State == choreo.StateHiddenAbove {
			continue
		}
		p := inc.Position.Add(f.Offset)
		r := int(gomath.Floor(float64((p.Y - s.bottom) / s.rowH)))
		c := int(gomath.Floor(float64((p.X-center.X)/colW + float32(width)/2)))
		if r < 0 || r >= s.rows || c < 0 || c >= width {
			continue
		}
		kind := CellGarnish
		if inc.Kind == choreo.KindIce {
			kind = CellIce
		}
		grid[s.rows-1-r][c] = kind
	}
	return grid
}

// wallAt returns the sampled wall radius at vessel-frame height y.
func (s *Section) wallAt(y float32) float32 {
	r := int(gomath.Floor(float64((y - s.bottom) / s.rowH)))
	if r < 0 || r >= s.rows {
		return 0
	}
	return s.walls[r]
}

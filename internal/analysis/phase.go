package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XName, YName string
	Points       []Point
}

// NewPhasePortrait pairs two named variables of a recorded run.
func NewPhasePortrait(r *sim.Result, xName, yName string) (*PhasePortrait2D, error) {
	xs, err := Series(r, xName)
	if err != nil {
		return nil, err
	}
	ys, err := Series(r, yName)
	if err != nil {
		return nil, err
	}

	portrait := &PhasePortrait2D{
		XName:  xName,
		YName:  yName,
		Points: make([]Point, len(xs)),
	}
	for i := range xs {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait, nil
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection holds (th2, w2) at each upward zero crossing of th1.
type PoincareSection struct {
	Points []Point
}

// NewPoincareSection scans a run for th1 crossing zero from below and
// records link 2 there, interpolated linearly between the bracketing frames.
// Jumps across the +-pi seam are not crossings.
func NewPoincareSection(r *sim.Result) *PoincareSection {
	section := &PoincareSection{Points: make([]Point, 0)}

	for i := 1; i < len(r.States); i++ {
		prev, cur := r.States[i-1], r.States[i]
		if !(prev.Th1 < 0 && cur.Th1 >= 0) || cur.Th1-prev.Th1 >= math.Pi {
			continue
		}

		frac := -prev.Th1 / (cur.Th1 - prev.Th1)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}

		th2Step := angle.UnwrapDelta(cur.Th2, prev.Th2)

		section.Points = append(section.Points, Point{
			X: angle.Normalize(prev.Th2 + frac*th2Step),
			Y: prev.W2 + frac*(cur.W2-prev.W2),
		})
	}

	return section
}

func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}

	portrait := &PhasePortrait2D{XName: "th2", YName: "w2", Points: section.Points}
	return PhasePortraitToASCII(portrait, width, height)
}

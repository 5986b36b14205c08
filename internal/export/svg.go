// Package export renders runs and live frames as SVG.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
	"github.com/san-kum/doubleswing/internal/viz"
)

// CanvasToSVG draws every lit braille dot of a canvas as a circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Frame is the layout of a run's SVG rendering.
type Frame struct {
	Size        int // square, in px
	TrailColor  string
	RodColor    string
	ShowPendant bool // draw rods and bobs at the final state
}

func DefaultFrame() Frame {
	return Frame{Size: 600, TrailColor: "#00ffff", RodColor: "#ffffff", ShowPendant: true}
}

// WriteTrajectorySVG traces bob 2 through every recorded frame of a run.
// The view is centered on the pivot and fits a pendulum at full reach, with
// +y down as on screen.
func WriteTrajectorySVG(w io.Writer, p physics.Params, result *sim.Result, f Frame) error {
	if result == nil || len(result.States) < 2 {
		return fmt.Errorf("need at least two frames, got %d", frameCount(result))
	}
	if f.Size <= 0 {
		f.Size = DefaultFrame().Size
	}

	reach := p.L1 + p.L2
	if !(reach > 0) {
		reach = 1
	}
	half := float64(f.Size) / 2
	scale := 0.9 * half / reach
	toSVG := func(x, y float64) (float64, float64) {
		return half + x*scale, half + y*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" stroke-opacity="0.7" d="M`,
		f.Size, f.Size, f.Size, f.Size, f.TrailColor)

	for i, s := range result.States {
		pos := p.BobPositions(s)
		x, y := toSVG(pos.X2, pos.Y2)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	if f.ShowPendant {
		pos := p.BobPositions(result.Final())
		x1, y1 := toSVG(pos.X1, pos.Y1)
		x2, y2 := toSVG(pos.X2, pos.Y2)
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="2" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>
<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>
`, f.RodColor, half, half, x1, y1, x2, y2,
			half, half, f.RodColor,
			x1, y1, f.RodColor,
			x2, y2, f.TrailColor)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func frameCount(r *sim.Result) int {
	if r == nil {
		return 0
	}
	return len(r.States)
}

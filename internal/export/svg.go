package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/carrysim/internal/sim"
	"github.com/san-kum/carrysim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if canvas.IsSet(x, y) {
				cx := float64(x)*scale + scale/2
				cy := float64(y)*scale + scale/2
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// bounds returns the padded extent of pts, never zero-sized.
func bounds(pts []mgl64.Vec2) (lo, span mgl64.Vec2) {
	lo, hi := pts[0], pts[0]
	for _, p := range pts {
		for i := 0; i < 2; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	span = hi.Sub(lo)
	for i := 0; i < 2; i++ {
		if span[i] == 0 {
			span[i] = 1
		}
		lo[i] -= span[i] * 0.1
		span[i] *= 1.2
	}
	return lo, span
}

// TrajectoryToSVG draws one polyline per path, all scaled to a shared frame.
// Colors cycle over strokeColors.
func TrajectoryToSVG(paths [][]mgl64.Vec2, width, height int, strokeColors ...string) string {
	var all []mgl64.Vec2
	for _, p := range paths {
		all = append(all, p...)
	}
	if len(all) < 2 {
		return ""
	}
	if len(strokeColors) == 0 {
		strokeColors = []string{"#00ffff"}
	}
	lo, span := bounds(all)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for n, path := range paths {
		if len(path) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, strokeColors[n%len(strokeColors)])
		for i, p := range path {
			x := (p[0] - lo[0]) / span[0] * float64(width)
			y := float64(height) - (p[1]-lo[1])/span[1]*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CarryPathToSVG draws the overhead (x, -z) path of every held stretch
// along with the hold target it was chasing.
func CarryPathToSVG(samples []sim.Sample, width, height int) string {
	var paths [][]mgl64.Vec2
	var colors []string
	var pos, target []mgl64.Vec2
	flush := func() {
		if len(pos) > 0 {
			paths = append(paths, target, pos)
			colors = append(colors, "#ff66cc", "#00ff88")
		}
		pos, target = nil, nil
	}

	for i, s := range samples {
		if i > 0 && s.Held != samples[i-1].Held {
			flush()
		}
		if s.Holding() {
			pos = append(pos, mgl64.Vec2{s.Position[0], -s.Position[2]})
			target = append(target, mgl64.Vec2{s.Target[0], -s.Target[2]})
		}
	}
	flush()

	return TrajectoryToSVG(paths, width, height, colors...)
}

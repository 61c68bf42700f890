package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/viz"
)

var traceColors = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#ffffff"}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailsToSVG plots every tracked tail of result projected onto two world
// axes (0 x, 1 y, 2 z), one path per track, sharing one scale.
func TrailsToSVG(result *sim.Result, ax, ay, width, height int) string {
	if result == nil || len(result.Tails) < 2 || len(result.Labels) == 0 {
		return ""
	}

	xs := make([][]float64, len(result.Labels))
	ys := make([][]float64, len(result.Labels))
	for i := range result.Labels {
		xs[i] = result.Series(i, ax)
		ys[i] = result.Series(i, ay)
	}

	minX, maxX := xs[0][0], xs[0][0]
	minY, maxY := ys[0][0], ys[0][0]
	for i := range xs {
		for j := range xs[i] {
			minX, maxX = min(minX, xs[i][j]), max(maxX, xs[i][j])
			minY, maxY = min(minY, ys[i][j]), max(maxY, ys[i][j])
		}
	}

	// square units with 10% padding
	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	span *= 1.2
	scale := float64(min(width, height)) / span

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, label := range result.Labels {
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" data-label=%q d=\"", traceColors[i%len(traceColors)], label)
		for j := range xs[i] {
			x := float64(width)/2 + (xs[i][j]-cx)*scale
			y := float64(height)/2 - (ys[i][j]-cy)*scale
			if j == 0 {
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

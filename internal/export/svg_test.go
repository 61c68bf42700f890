package export

import (
	"strings"
	"testing"

	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/viz"
	"github.com/san-kum/springbone/internal/vmath"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("got %d circles, want 2", got)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("unexpected size in %s", svg[:120])
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestTrailsToSVG(t *testing.T) {
	res := &sim.Result{
		Labels: []string{"left", "right"},
		Tails: [][]vmath.Vec3{
			{{0, 1, 0}, {1, 1, 0}},
			{{0, 0, 0}, {1, 0, 0}},
			{{0, -1, 0}, {1, -1, 0}},
		},
	}
	svg := TrailsToSVG(res, 0, 1, 200, 100)
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("got %d paths, want 2", got)
	}
	if got := strings.Count(svg, " L"); got != 4 {
		t.Errorf("got %d segments, want 4", got)
	}
	if !strings.Contains(svg, `data-label="right"`) {
		t.Error("missing label")
	}
	if TrailsToSVG(&sim.Result{}, 0, 1, 10, 10) != "" {
		t.Error("empty result should give empty output")
	}
}

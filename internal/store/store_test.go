package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/vmath"
)

func TestExportJSON(t *testing.T) {
	result := &sim.Result{
		Times:      []float64{0, 0.1},
		Labels:     []string{"tip"},
		Tails:      [][]vmath.Vec3{{{0, 1, 0}}, {{0.5, 0.5, 0}}},
		Metrics:    map[string]float64{"tail_speed": 2},
		FrameTimes: []time.Duration{time.Millisecond},
		StepsTaken: 1,
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, config.DefaultConfig(), result); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got ExportData
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}

	want := NewExportData(config.DefaultConfig(), result)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
	if got.FrameTimes[0] != 1e6 {
		t.Errorf("frame time = %d", got.FrameTimes[0])
	}
}

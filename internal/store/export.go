package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/sim"
)

type ExportData struct {
	Model      string             `json:"model"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Chain      config.ChainConfig `json:"chain"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	Labels     []string           `json:"labels"`
	Tails      [][][3]float32     `json:"tails"`
	Metrics    map[string]float64 `json:"metrics"`
	FrameTimes []int64            `json:"frame_times_ns"`
}

func NewExportData(cfg *config.Config, result *sim.Result) ExportData {
	data := ExportData{
		Model:      cfg.Model,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Chain:      cfg.Chain,
		Steps:      result.StepsTaken,
		Times:      result.Times,
		Labels:     result.Labels,
		Tails:      make([][][3]float32, len(result.Tails)),
		Metrics:    result.Metrics,
		FrameTimes: make([]int64, len(result.FrameTimes)),
	}

	for i, row := range result.Tails {
		data.Tails[i] = make([][3]float32, len(row))
		for j, v := range row {
			data.Tails[i][j] = [3]float32(v)
		}
	}
	for i, d := range result.FrameTimes {
		data.FrameTimes[i] = d.Nanoseconds()
	}
	return data
}

func ExportJSON(path string, cfg *config.Config, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Encode(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *sim.Result) error {
	return Encode(os.Stdout, cfg, result)
}

func Encode(w io.Writer, cfg *config.Config, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}

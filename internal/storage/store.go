package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Workers    int                `json:"workers"`
	Chain      config.ChainConfig `json:"chain"`
	Chains     int                `json:"chains"`
	Nodes      int                `json:"nodes"`
	Spheres    int                `json:"spheres"`
	Frames     uint64             `json:"frames"`
	Degenerate uint64             `json:"degenerate"`
	Labels     []string           `json:"labels"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and tails.csv into a new run directory and
// returns the run id.
func (s *Store) Save(cfg *config.Config, preset string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", cfg.Model, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      cfg.Model,
		Preset:     preset,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Workers:    cfg.Workers,
		Chain:      cfg.Chain,
		Chains:     result.Stats.Chains,
		Nodes:      result.Stats.Nodes,
		Spheres:    result.Stats.Spheres,
		Frames:     result.Stats.Frames,
		Degenerate: result.Stats.Degenerate,
		Labels:     result.Labels,
		Metrics:    result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeTails(filepath.Join(runDir, "tails.csv"), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeTails(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for _, label := range result.Labels {
		header = append(header, label+".x", label+".y", label+".z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range result.Tails {
		rec := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, v := range row {
			for _, c := range v {
				rec = append(rec, strconv.FormatFloat(float64(c), 'f', 6, 32))
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every stored run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTails reads tails.csv back. Each row holds x, y, z per tracked node.
func (s *Store) LoadTails(runID string) ([]string, [][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "tails.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, []float64{}, nil
	}

	header := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				val = 0
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return header, rows, times, nil
}

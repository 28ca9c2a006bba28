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

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{
	"tick", "time", "mode", "held", "hold_distance",
	"target_x", "target_y", "target_z",
	"pos_x", "pos_y", "pos_z",
	"vel_x", "vel_y", "vel_z",
	"error",
}

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
	ID            string             `json:"id"`
	Preset        string             `json:"preset"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	FrameDt       float64            `json:"frame_dt"`
	FixedDt       float64            `json:"fixed_dt"`
	Duration      float64            `json:"duration"`
	Integrator    string             `json:"integrator"`
	ReleasePolicy string             `json:"release_policy"`
	Frames        int                `json:"frames"`
	Ticks         int                `json:"ticks"`
	Dropped       float64            `json:"dropped"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes a run's metadata and tick trace under a fresh run id, which it
// returns. ID and Timestamp in meta are filled in here.
func (s *Store) Save(meta RunMetadata, samples []sim.Sample) (string, error) {
	runID, runDir, err := s.newRunDir(meta.Preset)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(traceHeader); err != nil {
		return "", err
	}
	for _, smp := range samples {
		if err := w.Write(encodeSample(smp)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) newRunDir(prefix string) (string, string, error) {
	if prefix == "" {
		prefix = "run"
	}
	base := fmt.Sprintf("%s_%d", prefix, time.Now().UnixMilli())
	runID := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, runID)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return "", "", err
			}
			return runID, dir, nil
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Latest returns the id of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs in %s", s.baseDir)
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		smp, err := decodeSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func encodeSample(s sim.Sample) []string {
	row := []string{
		strconv.Itoa(s.Tick),
		formatFloat(s.Time),
		s.Mode.String(),
		strconv.FormatUint(uint64(s.Held), 10),
		formatFloat(s.HoldDistance),
	}
	for _, v := range []mgl64.Vec3{s.Target, s.Position, s.Velocity} {
		row = append(row, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
	}
	return append(row, formatFloat(s.Error))
}

func decodeSample(record []string) (sim.Sample, error) {
	var s sim.Sample
	var err error

	if s.Tick, err = strconv.Atoi(record[0]); err != nil {
		return s, err
	}
	if s.Mode, err = parseMode(record[2]); err != nil {
		return s, err
	}
	held, err := strconv.ParseUint(record[3], 10, 64)
	if err != nil {
		return s, err
	}
	s.Held = dynamo.EntityID(held)

	floats := make([]float64, 0, 12)
	for _, idx := range []int{1, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14} {
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return s, fmt.Errorf("column %s: %w", traceHeader[idx], err)
		}
		floats = append(floats, v)
	}
	s.Time, s.HoldDistance = floats[0], floats[1]
	s.Target = mgl64.Vec3{floats[2], floats[3], floats[4]}
	s.Position = mgl64.Vec3{floats[5], floats[6], floats[7]}
	s.Velocity = mgl64.Vec3{floats[8], floats[9], floats[10]}
	s.Error = floats[11]
	return s, nil
}

func parseMode(name string) (carry.Mode, error) {
	for _, m := range []carry.Mode{carry.Idle, carry.Held, carry.Rotating} {
		if m.String() == name {
			return m, nil
		}
	}
	return carry.Idle, fmt.Errorf("unknown mode %q", name)
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/roversim/internal/sim"
)

// Store persists runs as one directory each: metadata.json plus a
// telemetry.csv with one row per tick.
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
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Policy      string             `json:"policy"`
	Mode        string             `json:"mode"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Ticks       int                `json:"ticks"`
	Checkpoints int                `json:"checkpoints"`
	Completed   bool               `json:"completed"`
	Metrics     map[string]float64 `json:"metrics"`
}

var telemetryHeader = []string{
	"time", "x", "z", "yaw", "speed",
	"clearance", "state", "throttle", "steer",
}

// Save writes one run to disk and returns its generated id.
func (s *Store) Save(scenario, policy, mode string, dt, duration float64, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	// A run that never saw an obstacle reports its minimum clearance as
	// +Inf, which encoding/json refuses to serialize. Such metrics carry
	// no number worth storing, so they are dropped from the metadata.
	metrics := make(map[string]float64, len(result.Metrics))
	for name, v := range result.Metrics {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		metrics[name] = v
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario,
		Policy:      policy,
		Mode:        mode,
		Timestamp:   time.Now(),
		Seed:        seed,
		Dt:          dt,
		Duration:    duration,
		Ticks:       result.TicksRun,
		Checkpoints: len(result.Checkpoints),
		Completed:   result.Completed,
		Metrics:     metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(telemetryHeader); err != nil {
		return "", err
	}
	for _, sample := range result.Samples {
		row := []string{
			ff(sample.Time),
			ff(sample.Pose.Position.X),
			ff(sample.Pose.Position.Z),
			ff(sample.Pose.Yaw),
			ff(sample.Speed),
			fc(sample.Reading.NearestDistance),
			sample.State.String(),
			ff(sample.Command.Throttle),
			ff(sample.Command.Steer),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// NoReading is the stored clearance for ticks where the probe fan saw
// nothing. Real clearances are non-negative, so the sentinel cannot
// collide with one, and it keeps plots over the column bounded.
const NoReading = -1.0

func fc(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ff(NoReading)
	}
	return ff(v)
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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Telemetry is the loaded numeric view of a run's csv: one named column
// per channel, plus the state name per tick.
type Telemetry struct {
	Times   []float64
	Columns map[string][]float64
	States  []string
}

// LoadTelemetry reads a run's per-tick channels back from disk.
func (s *Store) LoadTelemetry(runID string) (*Telemetry, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("telemetry for %s is empty", runID)
	}

	header := records[0]
	tel := &Telemetry{Columns: make(map[string][]float64)}

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		for i, name := range header {
			switch name {
			case "time":
				v, err := strconv.ParseFloat(record[i], 64)
				if err != nil {
					return nil, err
				}
				tel.Times = append(tel.Times, v)
			case "state":
				tel.States = append(tel.States, record[i])
			default:
				v, err := strconv.ParseFloat(record[i], 64)
				if err != nil {
					return nil, err
				}
				tel.Columns[name] = append(tel.Columns[name], v)
			}
		}
	}
	return tel, nil
}

// ExportJSON writes a run's metadata and telemetry as a single JSON
// document to stdout.
func (s *Store) ExportJSON(runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tel, err := s.LoadTelemetry(runID)
	if err != nil {
		return err
	}

	doc := struct {
		Meta     *RunMetadata         `json:"meta"`
		Times    []float64            `json:"times"`
		Channels map[string][]float64 `json:"channels"`
		States   []string             `json:"states"`
	}{meta, tel.Times, tel.Columns, tel.States}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

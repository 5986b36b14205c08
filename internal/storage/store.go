package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
)

var csvHeader = []string{"time", "th1", "w1", "th2", "w2", "ke", "pe", "driven"}

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
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Params      physics.Params     `json:"params"`
	InitState   physics.State      `json:"init_state"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Gestures    int                `json:"gestures"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata fills the fields of a run description that come from the
// result itself.
func NewMetadata(name string, p physics.Params, cfg sim.Config, gestures int, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		Name:        name,
		Timestamp:   time.Now(),
		Params:      p,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Gestures:    gestures,
		Steps:       result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	if len(result.States) > 0 {
		meta.InitState = result.States[0]
	}
	return meta
}

// Save writes metadata.json and states.csv into a fresh run directory and
// returns its ID. A failed save leaves no directory behind.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (id string, err error) {
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(runDir)
		}
	}()

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), finiteMetadata(meta)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// finiteMetadata drops metric values JSON cannot encode (NaN, Inf), which a
// diverged run can leave behind. A non-finite drift is stored as 0.
func finiteMetadata(meta RunMetadata) RunMetadata {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	if !finite(meta.EnergyDrift) {
		meta.EnergyDrift = 0
	}
	if meta.Metrics != nil {
		metrics := make(map[string]float64, len(meta.Metrics))
		for k, v := range meta.Metrics {
			if finite(v) {
				metrics[k] = v
			}
		}
		meta.Metrics = metrics
	}
	return meta
}

// WriteCSV writes one row per recorded state under the states.csv header.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	for i, st := range result.States {
		var e physics.Energy
		if i < len(result.Energies) {
			e = result.Energies[i]
		}
		driven := 0
		if i < len(result.Driven) {
			driven = result.Driven[i]
		}
		row := []string{
			format(result.Times[i]),
			format(st.Th1), format(st.W1),
			format(st.Th2), format(st.W2),
			format(e.Kinetic), format(e.Potential),
			strconv.Itoa(driven),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadStates reads states.csv back into the series fields of a Result.
// Metrics are not part of the CSV; take them from Load.
func (s *Store) LoadStates(runID string) (*sim.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result := &sim.Result{Metrics: map[string]float64{}}
	if len(records) < 2 {
		return result, nil
	}

	if len(records[0]) != len(csvHeader) {
		return nil, fmt.Errorf("run %s: %w: header has %d columns, want %d",
			runID, dynamo.ErrDimensionMismatch, len(records[0]), len(csvHeader))
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("run %s: %w: row %d has %d columns, want %d",
				runID, dynamo.ErrDimensionMismatch, i, len(record), len(csvHeader))
		}

		var vals [7]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		driven, err := strconv.Atoi(record[7])
		if !ok || err != nil {
			continue
		}

		result.Times = append(result.Times, vals[0])
		result.States = append(result.States, physics.State{
			Th1: vals[1], W1: vals[2], Th2: vals[3], W2: vals[4],
		})
		result.Energies = append(result.Energies, physics.Energy{Kinetic: vals[5], Potential: vals[6]})
		result.Driven = append(result.Driven, driven)
	}
	if n := len(result.States); n > 0 {
		result.StepsTaken = n - 1
	}

	return result, nil
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/procanim/internal/sim"
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
	ID          string               `json:"id"`
	Scene       string               `json:"scene"`
	Timestamp   time.Time            `json:"timestamp"`
	Dt          float32              `json:"dt"`
	Ticks       int                  `json:"ticks"`
	Iterations  int                  `json:"iterations"`
	Gravity     [3]float32           `json:"gravity"`
	Bounds      [2][3]float32        `json:"bounds"`
	Particles   int                  `json:"particles"`
	Fingerprint string               `json:"fingerprint"`
	Metrics     map[string]float64   `json:"metrics"`
	Series      map[string][]float64 `json:"series,omitempty"`
}

// Save writes metadata.json and frames.csv under a new run directory and
// returns the run id. ID, Timestamp, Fingerprint and Metrics are filled in
// from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Fingerprint = fmt.Sprintf("%016x", result.Fingerprint)
	meta.Metrics = result.Metrics
	meta.Series = result.Series
	if len(result.Frames) > 0 {
		meta.Particles = len(result.Frames[0].Positions)
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

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteFramesCSV writes a header of time, tick, p{i}_x, p{i}_y, p{i}_z
// followed by one row per frame.
func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	w := csv.NewWriter(out)

	header := []string{"time", "tick"}
	for i := range frames[0].Positions {
		header = append(header, fmt.Sprintf("p%d_x", i), fmt.Sprintf("p%d_y", i), fmt.Sprintf("p%d_z", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(float64(f.Time), 'f', 6, 32),
			strconv.FormatUint(f.Tick, 10),
		}
		for _, p := range f.Positions {
			for _, c := range p {
				row = append(row, strconv.FormatFloat(float64(c), 'g', -1, 32))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back. Positions round-trip bit for bit.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) < 2 || (len(record)-2)%3 != 0 {
			return nil, fmt.Errorf("frames.csv line %d: malformed record", line+2)
		}

		t, err := strconv.ParseFloat(record[0], 32)
		if err != nil {
			return nil, fmt.Errorf("frames.csv line %d: %w", line+2, err)
		}
		tick, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("frames.csv line %d: %w", line+2, err)
		}

		positions := make([]mgl32.Vec3, 0, (len(record)-2)/3)
		for j := 2; j < len(record); j += 3 {
			var p mgl32.Vec3
			for k := range 3 {
				v, err := strconv.ParseFloat(record[j+k], 32)
				if err != nil {
					return nil, fmt.Errorf("frames.csv line %d: %w", line+2, err)
				}
				p[k] = float32(v)
			}
			positions = append(positions, p)
		}

		frames = append(frames, sim.Frame{Tick: tick, Time: float32(t), Positions: positions})
	}

	return frames, nil
}

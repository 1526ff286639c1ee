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

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/models"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.tsv"
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
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Params     models.Params      `json:"params"`
	InitState  dynamo.State       `json:"init_state"`
	Step       float64            `json:"step"`
	Every      float64            `json:"every"`
	MaxTime    float64            `json:"max_time"`
	Steps      int                `json:"steps"`
	Samples    int                `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a new run directory holding metadata.json and samples.tsv, and
// returns the generated run id. Samples are stored at full precision. A failed
// save removes the partial run directory.
func (s *Store) Save(meta RunMetadata, samples []dynamo.Sample) (id string, err error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d_%s", meta.Name, now.Unix(), uuid.NewString()[:8])
	meta.Timestamp = now
	meta.Samples = len(samples)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	err = writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", metadataFile, err)
	}

	err = writeFile(filepath.Join(runDir, samplesFile), func(f *os.File) error {
		rw := export.NewRowWriter(f, -1)
		for _, sample := range samples {
			if err := rw.Write(sample); err != nil {
				return err
			}
		}
		return rw.Flush()
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", samplesFile, err)
	}

	return meta.ID, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns stored runs, oldest first. Unreadable entries are skipped.
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

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = '\t'
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]dynamo.Sample, 0, len(records))
	for i, record := range records {
		var v [4]float64
		for j, field := range record {
			v[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+1, err)
			}
		}
		samples = append(samples, dynamo.Sample{
			Time:  v[0],
			State: dynamo.State{S: v[1], I: v[2], R: v[3]},
		})
	}

	return samples, nil
}

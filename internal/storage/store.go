package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/experiment"
	"github.com/san-kum/crustsim/internal/stress"
)

const (
	metadataFile = "metadata.json"
	platesFile   = "plates.csv"
	fieldFile    = "field.csv"
)

var (
	// ErrRunNotFound indicates no stored run matches an id or prefix.
	ErrRunNotFound = errors.New("storage: run not found")

	// ErrAmbiguousRun indicates an id prefix that matches several runs.
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
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

// Dir returns the directory of a run.
func (s *Store) Dir(runID string) string { return filepath.Join(s.baseDir, runID) }

type RunMetadata struct {
	ID          string             `json:"id"`
	Mesh        string             `json:"mesh"`
	Timestamp   time.Time          `json:"timestamp"`
	VertexCount int                `json:"vertex_count"`
	Plates      int                `json:"plates"`
	Policy      string             `json:"policy"`
	Iterations  int                `json:"iterations"`
	Claimed     []int              `json:"claimed"`
	Sizes       []int              `json:"sizes"`
	Seeds       []int              `json:"seeds"`
	Unclaimed   int                `json:"unclaimed"`
	ElapsedMS   float64            `json:"elapsed_ms"`
	Metrics     map[string]float64 `json:"metrics"`
	Config      *config.Config     `json:"config"`
}

// Save writes metadata.json and plates.csv, plus field.csv when field is
// not nil, under a fresh run id.
func (s *Store) Save(cfg *config.Config, field stress.Field, result *experiment.Result) (string, error) {
	runID := uuid.NewString()
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Mesh:        cfg.Mesh.Kind,
		Timestamp:   time.Now(),
		VertexCount: len(result.Map),
		Plates:      cfg.Plates,
		Policy:      cfg.Policy,
		Iterations:  result.Iterations,
		Claimed:     result.Claimed,
		Sizes:       result.Sizes,
		Seeds:       result.Seeds,
		Unclaimed:   len(result.Unclaimed),
		ElapsedMS:   float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:     result.Metrics,
		Config:      cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, platesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WritePlateMap(csvFile, result.Map, result.Counts); err != nil {
		return "", err
	}

	if field != nil {
		if err := stress.Save(filepath.Join(runDir, fieldFile), field); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WritePlateMap writes one row per vertex: vertex, plate, claims.
func WritePlateMap(w io.Writer, plateMap, counts []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vertex", "plate", "claims"}); err != nil {
		return err
	}
	for id, plate := range plateMap {
		claims := 0
		if id < len(counts) {
			claims = counts[id]
		}
		if err := cw.Write([]string{strconv.Itoa(id), strconv.Itoa(plate), strconv.Itoa(claims)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Resolve expands a unique id prefix to a full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrRunNotFound
	}
	if _, err := os.Stat(filepath.Join(s.Dir(prefix), metadataFile)); err == nil {
		return prefix, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
		}
		return "", err
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			matches = append(matches, entry.Name())
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d runs", ErrAmbiguousRun, prefix, len(matches))
	}
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPlateMap reads the plate id and claim count of every vertex.
func (s *Store) LoadPlateMap(runID string) (plateMap, counts []int, err error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), platesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []int{}, []int{}, nil
	}

	plateMap = make([]int, 0, len(records)-1)
	counts = make([]int, 0, len(records)-1)
	for i, record := range records[1:] {
		plate, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", platesFile, i+2, err)
		}
		claims, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", platesFile, i+2, err)
		}
		plateMap = append(plateMap, plate)
		counts = append(counts, claims)
	}

	return plateMap, counts, nil
}

// LoadField reads the stored stress field of a run.
func (s *Store) LoadField(runID string) (stress.Field, error) {
	return stress.Load(filepath.Join(s.Dir(runID), fieldFile))
}

// PlatesPath returns the path of a run's plates.csv.
func (s *Store) PlatesPath(runID string) string {
	return filepath.Join(s.Dir(runID), platesFile)
}

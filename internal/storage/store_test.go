package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/experiment"
)

func runSmall(t *testing.T) (*config.Config, *experiment.Experiment, *experiment.Result) {
	t.Helper()
	cfg := config.GetPreset("lattice", "small")
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatalf("experiment.New() error = %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return cfg, exp, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, exp, res := runSmall(t)
	runID, err := st.Save(cfg, exp.Field(), res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Mesh != "lattice" {
		t.Errorf("expected mesh 'lattice', got '%s'", meta.Mesh)
	}
	if meta.Plates != cfg.Plates || len(meta.Sizes) != cfg.Plates {
		t.Errorf("plates = %d sizes = %v, want %d", meta.Plates, meta.Sizes, cfg.Plates)
	}
	if meta.Config == nil || *meta.Config != *cfg {
		t.Errorf("config not round-tripped: %+v", meta.Config)
	}
	if meta.Metrics["coverage"] != res.Metrics["coverage"] {
		t.Errorf("coverage = %v, want %v", meta.Metrics["coverage"], res.Metrics["coverage"])
	}

	plateMap, counts, err := st.LoadPlateMap(runID)
	if err != nil {
		t.Fatalf("load plate map failed: %v", err)
	}
	if len(plateMap) != len(res.Map) || len(counts) != len(res.Counts) {
		t.Fatalf("plate map has %d rows, want %d", len(plateMap), len(res.Map))
	}
	for i := range plateMap {
		if plateMap[i] != res.Map[i] || counts[i] != res.Counts[i] {
			t.Fatalf("row %d = (%d,%d), want (%d,%d)", i, plateMap[i], counts[i], res.Map[i], res.Counts[i])
		}
	}

	field, err := st.LoadField(runID)
	if err != nil {
		t.Fatalf("load field failed: %v", err)
	}
	if len(field) != len(exp.Field()) {
		t.Errorf("field has %d vectors, want %d", len(field), len(exp.Field()))
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, _, res := runSmall(t)
	for i := 0; i < 2; i++ {
		if _, err := st.Save(cfg, nil, res); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, _, res := runSmall(t)
	runID, err := st.Save(cfg, nil, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "plates.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if _, err := os.Stat(filepath.Join(runDir, "field.csv")); !os.IsNotExist(err) {
		t.Error("field.csv written without a field")
	}
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	for _, id := range []string{"abc123", "abd456"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, id), 0755); err != nil {
			t.Fatal(err)
		}
	}

	if got, err := st.Resolve("abc"); err != nil || got != "abc123" {
		t.Errorf("Resolve(abc) = %q, %v", got, err)
	}
	if _, err := st.Resolve("ab"); !errors.Is(err, ErrAmbiguousRun) {
		t.Errorf("Resolve(ab) error = %v, want ErrAmbiguousRun", err)
	}
	if _, err := st.Resolve("zz"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Resolve(zz) error = %v, want ErrRunNotFound", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	cfg, _, res := runSmall(t)
	runID, err := st.Save(cfg, nil, res)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if data.ID != runID || len(data.Map) != len(res.Map) {
		t.Errorf("export id %q with %d map entries, want %q with %d", data.ID, len(data.Map), runID, len(res.Map))
	}
}

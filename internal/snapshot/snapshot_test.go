package snapshot

import (
	"energydash/internal/models"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "records.json.zst")
	obs := []models.Observation{
		{RegionID: 3, StartYear: 2012, ElectricityUsage: 68000.25, GasUsage: 140.1},
		{RegionID: 8, StartYear: 2012, ElectricityUsage: 10500, TotalGasGenerate: 0},
	}
	if err := Save(path, "xlsx", obs); err != nil {
		t.Fatal(err)
	}

	src, got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if src != "xlsx" {
		t.Errorf("Expected source xlsx, got %q", src)
	}
	if len(got) != 2 || got[0] != obs[0] || got[1] != obs[1] {
		t.Errorf("Snapshot mismatch %s", spew.Sdump(got))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := Load(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage")
	if err := os.WriteFile(garbage, []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(garbage); err == nil {
		t.Error("Expected error for corrupt snapshot")
	}

	empty := filepath.Join(dir, "empty")
	if err := Save(empty, "db", nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(empty); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
}

package db

import (
	"context"
	"energydash/internal/models"
	"os"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// Runs against a scratch database named by ENERGY_TEST_DB.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("ENERGY_TEST_DB")
	if dsn == "" {
		t.Skip("ENERGY_TEST_DB not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	for _, q := range []string{"DROP TABLE IF EXISTS energy_generation", "DROP TABLE IF EXISTS energy_consumption", "DROP TABLE IF EXISTS regions"} {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestIngestAndRead(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.Observations(ctx); err != ErrNoRows {
		t.Fatalf("Expected ErrNoRows on empty store, got %v", err)
	}

	obs := []models.Observation{
		{RegionID: 3, StartYear: 2009, ElectricityUsage: 70000, GasUsage: 130, NonRenewableElec: 60000, RenewableElec: 8000, TotalElecGenerate: 68000, TotalGasGenerate: 4},
		{RegionID: 1, StartYear: 2008, ElectricityUsage: 240000, GasUsage: 1300, NonRenewableElec: 230000, RenewableElec: 17000, TotalElecGenerate: 247000, TotalGasGenerate: 1900},
	}
	if err := s.Ingest(ctx, obs); err != nil {
		t.Fatal(err)
	}
	// Re-ingest replaces rather than duplicates
	if err := s.Ingest(ctx, obs); err != nil {
		t.Fatal(err)
	}

	got, err := s.Observations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 observations, got %s", spew.Sdump(got))
	}
	if got[0] != obs[1] || got[1] != obs[0] {
		t.Errorf("Unexpected order or values %s", spew.Sdump(got))
	}
}

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestIngestRequiresDB(t *testing.T) {
	t.Setenv("DB", "")
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"ingest", "--dir", t.TempDir(), "--db", ""})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--db") {
		t.Fatalf("Expected missing DB error, got %v", err)
	}
}

func TestExportMissingWorkbooks(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"export", "--dir", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected error for empty data directory")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ENERGYCTL_TEST", "")
	if got := envOr("ENERGYCTL_TEST", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
	t.Setenv("ENERGYCTL_TEST", "/srv/data")
	if got := envOr("ENERGYCTL_TEST", "fallback"); got != "/srv/data" {
		t.Errorf("Expected env value, got %q", got)
	}
}

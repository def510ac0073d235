package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	prevOut, prevFlags := log.Writer(), log.Flags()
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()

	_, closer := Setup(path)
	log.Println("dataset reloaded")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "dataset reloaded") {
		t.Errorf("Log file missing message: %q", b)
	}
	if !strings.Contains(string(b), "logging_test.go") {
		t.Errorf("Expected short file name in log line: %q", b)
	}
}

// Package snapshot caches the last loaded observations on disk so a
// restarted server can answer before the workbooks are parsed again.
package snapshot

import (
	"energydash/internal/models"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"
	"github.com/goccy/go-json"
)

var ErrEmpty = errors.New("snapshot holds no observations")

type file struct {
	Version      int                  `json:"version"`
	Source       string               `json:"source"`
	Observations []models.Observation `json:"observations"`
}

const version = 1

// Save writes obs as zstd-compressed JSON, replacing any previous snapshot.
func Save(path, source string, obs []models.Observation) error {
	b, err := json.Marshal(file{Version: version, Source: source, Observations: obs})
	if err != nil {
		return err
	}
	z, err := zstd.Compress(nil, b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, z, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a snapshot written by Save. A missing file returns an error
// matching os.ErrNotExist.
func Load(path string) (source string, obs []models.Observation, err error) {
	z, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	b, err := zstd.Decompress(nil, z)
	if err != nil {
		return "", nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return "", nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if f.Version != version {
		return "", nil, fmt.Errorf("%s: snapshot version %d, want %d", path, f.Version, version)
	}
	if len(f.Observations) == 0 {
		return "", nil, ErrEmpty
	}
	return f.Source, f.Observations, nil
}

// Package storage persists generated files on the local disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Local writes files under a base directory.
type Local struct {
	baseDir string
}

// NewLocal returns storage rooted at baseDir. Directories are created on
// first write.
func NewLocal(baseDir string) *Local {
	if baseDir == "" {
		baseDir = "."
	}
	return &Local{baseDir: baseDir}
}

// Save writes data to name and returns the path written. Absolute names
// bypass the base directory.
func (s *Local) Save(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// Path resolves name against the base directory.
func (s *Local) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}

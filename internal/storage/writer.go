// Package storage persists generated audio under the configured output directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// AudioWriter writes audio blobs into a single directory.
// Existing files with the same name are replaced; concurrent writers of the
// same name race and the last rename wins.
type AudioWriter struct {
	dir string
}

// NewAudioWriter returns a writer rooted at dir. The directory is expected to
// exist already (see config.EnsureOutputDir).
func NewAudioWriter(dir string) (*AudioWriter, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", dir, err)
	}
	return &AudioWriter{dir: filepath.Clean(abs)}, nil
}

// Dir returns the absolute output directory
func (w *AudioWriter) Dir() string {
	return w.dir
}

// Write stores data as name inside the output directory and returns the
// absolute path. The file appears complete or not at all.
func (w *AudioWriter) Write(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to sync audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename temp file: %w", err)
	}
	return path, nil
}

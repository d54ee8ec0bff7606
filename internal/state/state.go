// Package state keeps the small files widgets use to remember things
// between invocations: marker files, counters and lock files.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Marker is a file whose existence is the state.
type Marker string

// Exists reports whether the marker is set.
func (m Marker) Exists() bool {
	_, err := os.Stat(string(m))
	return err == nil
}

// Set creates the marker.
func (m Marker) Set() error {
	f, err := os.OpenFile(string(m), os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", m, err)
	}
	return f.Close()
}

// Clear removes the marker. Clearing an absent marker is not an error.
func (m Marker) Clear() error {
	if err := os.Remove(string(m)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", m, err)
	}
	return nil
}

// Int is a file holding a single integer.
type Int string

// Read returns the stored value, or def when the file is missing or corrupt.
func (i Int) Read(def int) int {
	data, err := os.ReadFile(string(i))
	if err != nil {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return def
	}
	return v
}

// Write stores v.
func (i Int) Write(v int) error {
	return WriteFile(string(i), []byte(strconv.Itoa(v)), 0644)
}

// Clear removes the file.
func (i Int) Clear() error {
	return Marker(i).Clear()
}

// WriteFile writes data atomically via a temp file in the same directory.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Package file provides the filesystem artifact writer: each export
// chunk is written as one file under the configured export directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ArtifactWriter = (*Writer)(nil)

// Writer writes artifacts into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the export directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores data under name inside the export directory, replacing
// any previous artifact of the same name.
func (w *Writer) Write(name string, data []byte) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

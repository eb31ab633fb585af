// Package render writes decoded figures to files a browser or another tool
// can pick up. Every sink replaces its output atomically.
package render

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/psychro/internal/model"
	"github.com/spf13/afero"
)

// Sink renders a figure into a container, replacing the previous one.
type Sink interface {
	Render(container string, fig model.Figure) error
}

// Locator reports where a sink writes a container's output.
type Locator interface {
	Path(container string) string
}

type fileSink struct {
	fs  afero.Fs
	dir string
	ext string
}

// Path returns <dir>/<container><ext>.
func (s fileSink) Path(container string) string {
	return filepath.Join(s.dir, container+s.ext)
}

// write replaces the container file through a temp file in the same directory.
func (s fileSink) write(container string, content []byte) error {
	if container == "" || filepath.Base(container) != container {
		return fmt.Errorf("invalid container name %q", container)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+container+"-*"+s.ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to write chart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to close chart file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.Path(container)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace chart: %w", err)
	}
	return nil
}

// Multi renders to every sink in order. All sinks are attempted; their
// errors are joined.
type Multi []Sink

// Render implements Sink.
func (m Multi) Render(container string, fig model.Figure) error {
	var errs []error
	for _, s := range m {
		if err := s.Render(container, fig); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Paths returns the output path of every sink that reports one.
func (m Multi) Paths(container string) []string {
	var paths []string
	for _, s := range m {
		if l, ok := s.(Locator); ok {
			paths = append(paths, l.Path(container))
		}
	}
	return paths
}

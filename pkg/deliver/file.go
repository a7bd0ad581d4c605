package deliver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/boardexport/pkg/archive"
	"github.com/matzehuels/boardexport/pkg/errors"
)

// DirSink writes artifacts into a directory, creating it if needed.
type DirSink struct {
	Dir string
}

// NewDirSink returns a sink for dir. An empty dir means the working directory.
func NewDirSink(dir string) *DirSink {
	if dir == "" {
		dir = "."
	}
	return &DirSink{Dir: dir}
}

// Deliver writes a to Dir/a.Name and returns the path.
func (s *DirSink) Deliver(ctx context.Context, a archive.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return writeFile(s.Dir, a)
}

// writeFile writes through a temporary file so a failed write never leaves a
// truncated artifact behind.
func writeFile(dir string, a archive.Artifact) (string, error) {
	if err := errors.ValidatePath(a.Name); err != nil {
		return "", err
	}
	if filepath.Base(a.Name) != a.Name {
		return "", errors.New(errors.ErrCodeInvalidPath, "artifact name %q is not a file name", a.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, a.Name)
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriterSink copies artifacts to a writer.
type WriterSink struct {
	W io.Writer
}

// Deliver writes the artifact bytes to W. The location is "-".
func (s WriterSink) Deliver(ctx context.Context, a archive.Artifact) (string, error) {
	if _, err := s.W.Write(a.Data); err != nil {
		return "", fmt.Errorf("write %s: %w", a.Name, err)
	}
	return "-", nil
}

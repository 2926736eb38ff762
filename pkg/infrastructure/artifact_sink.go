package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"portfolio/internal/domain"

	"github.com/google/uuid"
)

// FileSink "downloads" artifacts by writing them into a directory that the
// HTTP layer serves.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = filepath.Join("resume-data", "generated")
	}
	return &FileSink{Dir: dir}
}

// fileName keeps only the final path element of filename so artifacts
// never escape Dir.
func fileName(filename string) string {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, "\\", "/")))
	if name == "/" || name == "." || name == "" {
		return uuid.New().String() + ".pdf"
	}
	return name
}

func (s *FileSink) Deliver(ctx context.Context, filename string, data []byte) (domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return domain.Artifact{}, err
	}
	name := fileName(filename)
	path := filepath.Join(s.Dir, name)

	// write then rename so a reader never sees a partial file
	tmp, err := os.CreateTemp(s.Dir, ".export-*")
	if err != nil {
		return domain.Artifact{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.Artifact{}, err
	}
	if err := tmp.Close(); err != nil {
		return domain.Artifact{}, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return domain.Artifact{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: name, Path: path, Size: int64(len(data))}, nil
}

func (s *FileSink) Locate(filename string) (domain.Artifact, error) {
	name := fileName(filename)
	path := filepath.Join(s.Dir, name)
	fi, err := os.Stat(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: name, Path: path, Size: fi.Size()}, nil
}

package output

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"docsync/internal/errors"
)

// Writer persists rendered artifacts under the output directory. A failed
// write is fatal for that artifact only; the remaining artifacts are still
// written and the first error is reported at the end.
type Writer struct {
	dir      string
	compress bool
	logger   *slog.Logger

	// Written maps each artifact's path (relative to the output dir) to the
	// source paths it was derived from, for fingerprint bookkeeping.
	Written map[string][]string
}

// NewWriter prepares a writer rooted at dir.
func NewWriter(dir string, compress bool, logger *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(errors.ArtifactWrite, "creating output directory "+dir, err)
	}
	return &Writer{
		dir:      dir,
		compress: compress,
		logger:   logger,
		Written:  map[string][]string{},
	}, nil
}

// WritePages writes every rendered page, continuing past individual
// failures. Returns the first error encountered.
func (w *Writer) WritePages(pages []Page) error {
	var firstErr error
	for _, page := range pages {
		if err := w.write(page.Filename, page.Content, page.Sources); err != nil {
			w.logger.Error("failed to write page", "file", page.Filename, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// WriteFile writes one named artifact. sources may be nil for artifacts
// derived from the whole tree.
func (w *Writer) WriteFile(name string, content []byte, sources []string) error {
	return w.write(name, content, sources)
}

// WriteCompressed writes content zstd-compressed when compression is
// enabled, plain otherwise. The stored name reflects the actual file.
func (w *Writer) WriteCompressed(name string, content []byte, sources []string) error {
	if !w.compress {
		return w.write(name, content, sources)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return errors.New(errors.ArtifactWrite, "initializing zstd encoder", err)
	}
	compressed := enc.EncodeAll(content, nil)
	enc.Close()
	return w.write(name+".zst", compressed, sources)
}

func (w *Writer) write(name string, content []byte, sources []string) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.New(errors.ArtifactWrite, "writing artifact "+name, err)
	}
	w.Written[name] = sources
	return nil
}

// Package backup periodically writes template exports to a file or object
// store.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
)

const (
	SinkFile = "file"
	SinkS3   = "s3"
)

// Sink stores a named backup object.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) error
	// Location describes where name ends up, for logging.
	Location(name string) string
}

// NewSink builds the sink selected by cfg.Sink.
func NewSink(ctx context.Context, cfg config.BackupConfig) (Sink, error) {
	switch cfg.Sink {
	case "", SinkFile:
		return NewFileSink(cfg.Dir), nil
	case SinkS3:
		return NewS3Sink(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backup sink %q", cfg.Sink)
	}
}

// FileSink writes backups into a local directory.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (f *FileSink) Location(name string) string {
	return filepath.Join(f.dir, name)
}

// Write replaces the file atomically so a reader never sees a partial export.
func (f *FileSink) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.Location(name)); err != nil {
		return fmt.Errorf("rename backup: %w", err)
	}
	return nil
}

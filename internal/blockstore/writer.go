package blockstore

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
	pkgerrors "github.com/hadarkn/IR-Final-Project-2026/pkg/errors"
)

// Writer appends byte payloads across a virtually unbounded series of
// segment files, each at most BlockSize bytes. It is a sequential,
// single-owner object: one writer per shard build, not safe for concurrent
// use.
type Writer struct {
	backend storage.Backend
	baseDir string
	name    string

	cur     io.WriteCloser
	curName string
	pos     int64
	seq     int
	closed  bool
}

// NewWriter opens the first segment file ({name}_000.bin) under baseDir.
func NewWriter(ctx context.Context, backend storage.Backend, baseDir, name string) (*Writer, error) {
	w := &Writer{
		backend: backend,
		baseDir: baseDir,
		name:    name,
	}
	if err := w.openNext(ctx); err != nil {
		return nil, fmt.Errorf("opening first segment: %w", err)
	}
	return w, nil
}

// Write appends p, splitting it across as many segment files as needed, and
// returns one Location per contiguous chunk in file order. A record spanning
// k files yields k locations.
func (w *Writer) Write(ctx context.Context, p []byte) ([]Location, error) {
	if w.closed {
		return nil, pkgerrors.ErrWriterClosed
	}
	var locs []Location
	for len(p) > 0 {
		remaining := BlockSize - w.pos
		if remaining == 0 {
			if err := w.cur.Close(); err != nil {
				return locs, fmt.Errorf("closing full segment %s: %w", w.curName, err)
			}
			if err := w.openNext(ctx); err != nil {
				return locs, fmt.Errorf("opening next segment: %w", err)
			}
			remaining = BlockSize
		}
		n := int64(len(p))
		if n > remaining {
			n = remaining
		}
		if _, err := w.cur.Write(p[:n]); err != nil {
			return locs, fmt.Errorf("writing to segment %s: %w", w.curName, err)
		}
		locs = append(locs, Location{File: w.curName, Offset: w.pos})
		w.pos += n
		p = p[n:]
	}
	return locs, nil
}

// Close releases the current segment file. It must be called exactly once
// after all writes.
func (w *Writer) Close() error {
	if w.closed {
		return pkgerrors.ErrWriterClosed
	}
	w.closed = true
	return w.cur.Close()
}

func (w *Writer) openNext(ctx context.Context) error {
	name := segmentName(w.name, w.seq)
	f, err := w.backend.Create(ctx, path.Join(w.baseDir, name))
	if err != nil {
		return err
	}
	w.cur = f
	w.curName = name
	w.pos = 0
	w.seq++
	return nil
}

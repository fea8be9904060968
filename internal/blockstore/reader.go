package blockstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/hadarkn/IR-Final-Project-2026/internal/storage"
)

// Reader reassembles byte ranges previously produced by a Writer. It caches
// one open handle per distinct segment file touched during its lifetime, so
// a reader is meant to be scoped to a single query or iteration and then
// closed.
type Reader struct {
	backend storage.Backend
	baseDir string
	open    map[string]storage.Object
}

// NewReader creates a Reader over baseDir. No files are opened until the
// first Read.
func NewReader(backend storage.Backend, baseDir string) *Reader {
	return &Reader{
		backend: backend,
		baseDir: baseDir,
		open:    make(map[string]storage.Object),
	}
}

// Read fetches totalBytes bytes from the given locations, in location order.
// Each location contributes min(remaining, BlockSize-offset) bytes, exactly
// mirroring how the Writer split the payload. Locations must be supplied in
// write order; there are no checksums to detect garbled input.
func (r *Reader) Read(ctx context.Context, locs []Location, totalBytes int) ([]byte, error) {
	buf := make([]byte, 0, totalBytes)
	remaining := int64(totalBytes)
	for _, loc := range locs {
		if remaining <= 0 {
			break
		}
		// Stored names may carry a directory component from the writer's
		// view of the world; only the base name is meaningful here.
		f, err := r.handle(ctx, path.Base(loc.File))
		if err != nil {
			return nil, err
		}
		n := BlockSize - loc.Offset
		if n > remaining {
			n = remaining
		}
		chunk := make([]byte, n)
		read, err := f.ReadAt(chunk, loc.Offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %d bytes at %s:%d: %w", n, loc.File, loc.Offset, err)
		}
		buf = append(buf, chunk[:read]...)
		remaining -= int64(read)
	}
	return buf, nil
}

// Close releases every cached handle. All handles are closed even if some
// fail; the first error is returned.
func (r *Reader) Close() error {
	var firstErr error
	for name, f := range r.open {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing segment %s: %w", name, err)
		}
	}
	r.open = make(map[string]storage.Object)
	return firstErr
}

func (r *Reader) handle(ctx context.Context, name string) (storage.Object, error) {
	if f, ok := r.open[name]; ok {
		return f, nil
	}
	f, err := r.backend.Open(ctx, path.Join(r.baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("opening segment %s: %w", name, err)
	}
	r.open[name] = f
	return f, nil
}

// Package storage abstracts where index files live. Every path-accepting
// operation in the engine goes through a Backend, so the block store and
// metadata layers work identically against a local filesystem and an
// S3-compatible object store.
package storage

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a named object does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Backend is the single capability interface for index storage. Names are
// slash-separated paths relative to the backend's root.
type Backend interface {
	// Open opens an existing object for random-access reads.
	Open(ctx context.Context, name string) (Object, error)
	// Create creates (or truncates) an object for sequential writing.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	// List returns the names of all objects with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Object is a read-only handle to a stored object.
type Object interface {
	io.ReaderAt
	io.Closer
	// Size returns the object's size in bytes.
	Size() int64
}

// ReadAll reads an entire object into memory and closes it.
func ReadAll(ctx context.Context, b Backend, name string) ([]byte, error) {
	obj, err := b.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data := make([]byte, obj.Size())
	if _, err := obj.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return data, nil
}

// WriteAll writes data to a new object, replacing any previous content.
func WriteAll(ctx context.Context, b Backend, name string, data []byte) error {
	w, err := b.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Backend used in tests. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Open opens a stored object; the returned handle reads a private copy.
func (m *Memory) Open(_ context.Context, name string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[name]
	if !ok {
		return nil, ErrNotFound
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return &memoryObject{data: copied}, nil
}

// Create returns a writer that publishes the object on Close.
func (m *Memory) Create(_ context.Context, name string) (io.WriteCloser, error) {
	return &memoryWriter{store: m, name: name}, nil
}

// List returns all object names with the prefix, sorted.
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Len reports the size in bytes of a stored object, or -1 if absent.
func (m *Memory) Len(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	if !ok {
		return -1
	}
	return len(data)
}

type memoryObject struct {
	data []byte
}

func (o *memoryObject) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(o.data)) {
		return 0, io.EOF
	}
	n := copy(p, o.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (o *memoryObject) Close() error {
	return nil
}

func (o *memoryObject) Size() int64 {
	return int64(len(o.data))
}

type memoryWriter struct {
	store *Memory
	name  string
	buf   bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	data := make([]byte, w.buf.Len())
	copy(data, w.buf.Bytes())
	w.store.objects[w.name] = data
	return nil
}

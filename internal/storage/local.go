package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local implements Backend on top of a root directory in the local
// filesystem.
type Local struct {
	root string
}

// NewLocal creates a Local backend rooted at the given directory. The
// directory is created if it does not exist.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: root}, nil
}

func (l *Local) path(name string) string {
	return filepath.Join(l.root, filepath.FromSlash(name))
}

// Open opens a file for random-access reads.
func (l *Local) Open(_ context.Context, name string) (Object, error) {
	f, err := os.Open(l.path(name))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &localObject{f: f, size: info.Size()}, nil
}

// Create creates or truncates a file for writing, making parent directories
// as needed.
func (l *Local) Create(_ context.Context, name string) (io.WriteCloser, error) {
	p := l.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return os.Create(p)
}

// List walks the root and returns slash-separated names with the given
// prefix.
func (l *Local) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

type localObject struct {
	f    *os.File
	size int64
}

func (o *localObject) ReadAt(p []byte, off int64) (int, error) {
	return o.f.ReadAt(p, off)
}

func (o *localObject) Close() error {
	return o.f.Close()
}

func (o *localObject) Size() int64 {
	return o.size
}

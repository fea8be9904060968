package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
)

// Minio implements Backend against an S3-compatible object store. All
// object keys are prefixed with rootPrefix.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinio connects to the object store described by cfg and returns a
// backend scoped to its bucket.
func NewMinio(cfg config.MinioConfig, rootPrefix string) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Minio{
		client: client,
		bucket: cfg.Bucket,
		prefix: rootPrefix,
	}, nil
}

func (m *Minio) key(name string) string {
	return path.Join(m.prefix, name)
}

// Open stats the object to learn its size, then returns a handle that
// serves ReadAt calls via ranged GETs.
func (m *Minio) Open(ctx context.Context, name string) (Object, error) {
	key := m.key(name)
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &minioObject{
		ctx:    ctx,
		client: m.client,
		bucket: m.bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

// Create starts a streaming upload; the object becomes visible when the
// returned writer is closed.
func (m *Minio) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	key := m.key(name)
	pr, pw := io.Pipe()

	w := &minioWriter{
		pw:   pw,
		done: make(chan error, 1),
	}
	go func() {
		_, err := m.client.PutObject(ctx, m.bucket, key, pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

// listPrefix joins root and prefix keeping a trailing slash. path.Join drops
// it, which would make "dir/" also match a sibling key like "dir2/x".
func listPrefix(root, prefix string) string {
	full := path.Join(root, prefix)
	if strings.HasSuffix(prefix, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}
	return full
}

// List returns all object names under the prefix, sorted.
func (m *Minio) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := listPrefix(m.prefix, prefix)

	var names []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, m.prefix)
		name = strings.TrimPrefix(name, "/")
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

type minioObject struct {
	ctx    context.Context
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (o *minioObject) ReadAt(p []byte, off int64) (int, error) {
	if off >= o.size {
		return 0, io.EOF
	}
	opts := minio.GetObjectOptions{}
	end := off + int64(len(p)) - 1
	if end >= o.size {
		end = o.size - 1
	}
	if err := opts.SetRange(off, end); err != nil {
		return 0, err
	}
	obj, err := o.client.GetObject(o.ctx, o.bucket, o.key, opts)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:end-off+1])
	if err == nil && int64(n) < int64(len(p)) {
		err = io.EOF
	}
	return n, err
}

func (o *minioObject) Close() error {
	return nil
}

func (o *minioObject) Size() int64 {
	return o.size
}

type minioWriter struct {
	pw     *io.PipeWriter
	done   chan error
	closed atomic.Bool
}

func (w *minioWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *minioWriter) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return errors.New("already closed")
	}
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

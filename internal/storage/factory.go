package storage

import (
	"fmt"

	"github.com/hadarkn/IR-Final-Project-2026/pkg/config"
)

// FromConfig builds the Backend selected by cfg.Backend. This is the only
// place that knows which concrete backend is in use.
func FromConfig(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "local":
		return NewLocal(cfg.Local.Root)
	case "minio":
		return NewMinio(cfg.Minio, "")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

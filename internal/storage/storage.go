package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/vanotis720/SampleTaskAPI/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid file path")
)

// FileStore keeps uploaded files addressed by slash-separated relative paths.
type FileStore interface {
	Put(ctx context.Context, name string, r io.Reader, contentType string) error
	Get(ctx context.Context, name string) (io.ReadCloser, *FileInfo, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	Close() error
}

type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// NewFileStore builds the driver selected in cfg.
func NewFileStore(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "nats":
		store, err := NewJetStreamObjectStore(cfg.NATSURL, cfg.NATSBucket)
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "local", "":
		return NewLocalDiskStore(cfg.LocalRoot)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// PublicURL joins the public base URL with a stored path. It returns nil
// when no path is set.
func PublicURL(base string, name *string) *string {
	if name == nil || *name == "" {
		return nil
	}
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(*name, "/")
	return &u
}

// CleanName normalizes a relative path and rejects anything escaping the
// store root.
func CleanName(name string) (string, error) {
	name = strings.TrimLeft(strings.ReplaceAll(name, "\\", "/"), "/")
	if name == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

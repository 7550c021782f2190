package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamObjectStore keeps files in a NATS JetStream object store bucket.
type JetStreamObjectStore struct {
	conn       *nats.Conn
	js         jetstream.JetStream
	store      jetstream.ObjectStore
	bucketName string
}

func NewJetStreamObjectStore(natsURL, bucketName string) (*JetStreamObjectStore, error) {
	conn, err := nats.Connect(natsURL, nats.Name("task-api-storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &JetStreamObjectStore{
		conn:       conn,
		js:         js,
		bucketName: bucketName,
	}, nil
}

// Init binds the bucket, creating it on first use.
func (s *JetStreamObjectStore) Init(ctx context.Context) error {
	store, err := s.js.ObjectStore(ctx, s.bucketName)
	if err == nil {
		s.store = store
		return nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return fmt.Errorf("failed to open object store bucket: %w", err)
	}

	store, err = s.js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      s.bucketName,
		Description: "Task image uploads",
	})
	if err != nil {
		return fmt.Errorf("failed to create object store bucket: %w", err)
	}

	s.store = store
	return nil
}

func (s *JetStreamObjectStore) Put(ctx context.Context, name string, r io.Reader, contentType string) error {
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}

	meta := jetstream.ObjectMeta{
		Name: cleaned,
		Headers: nats.Header{
			"Content-Type": []string{contentType},
		},
	}
	if _, err := s.store.Put(ctx, meta, r); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

func (s *JetStreamObjectStore) Get(ctx context.Context, name string) (io.ReadCloser, *FileInfo, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.store.Get(ctx, cleaned)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get object: %w", err)
	}

	info, err := result.Info()
	if err != nil {
		result.Close()
		return nil, nil, fmt.Errorf("failed to get object info: %w", err)
	}

	contentType := "application/octet-stream"
	if info.Headers != nil {
		if ct := info.Headers.Get("Content-Type"); ct != "" {
			contentType = ct
		}
	}

	return result, &FileInfo{
		Name:        info.Name,
		Size:        int64(info.Size),
		ContentType: contentType,
		ModTime:     info.ModTime,
	}, nil
}

func (s *JetStreamObjectStore) Delete(ctx context.Context, name string) error {
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, cleaned); err != nil && !errors.Is(err, jetstream.ErrObjectNotFound) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *JetStreamObjectStore) Exists(ctx context.Context, name string) (bool, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return false, err
	}
	if _, err := s.store.GetInfo(ctx, cleaned); err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get object info: %w", err)
	}
	return true, nil
}

// Health reports whether the NATS connection is usable.
func (s *JetStreamObjectStore) Health(ctx context.Context) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return errors.New("nats connection is not established")
	}
	return s.conn.FlushWithContext(ctx)
}

func (s *JetStreamObjectStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

package store

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"cloud.google.com/go/storage"
)

// GCS is a Cloud Storage-backed implementation of Store.
type GCS struct {
	client *storage.Client
	bucket string
	mu     sync.Mutex
}

// NewGCS creates a GCS store writing into the specified bucket.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCS{
		client: client,
		bucket: bucket,
	}, nil
}

// Put uploads an artifact, replacing any previous one with the same name.
func (s *GCS) Put(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	writer := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	writer.ContentType = contentType(name)

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

// Close closes the GCS client.
func (s *GCS) Close() error {
	return s.client.Close()
}

// Content type based on the artifact's file extension.
func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".png":
		return "image/png"
	case ".html":
		return "text/html"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

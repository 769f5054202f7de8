package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrObjectTooLarge is returned by Get when the object exceeds the read cap.
	ErrObjectTooLarge = errors.New("object too large")
)

// ObjectInfo is the listing view of a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage wraps a Cloud Storage client with the handful of operations the
// functions need.
type Storage struct {
	client *storage.Client
}

// NewStorage creates a Storage backed by a default-credential client.
func NewStorage(ctx context.Context) (*Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Storage{client: client}, nil
}

// Get reads at most maxBytes from gs://bucket/key.
func (s *Storage) Get(ctx context.Context, bucket, key string, maxBytes int64) ([]byte, error) {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, key, mapNotFound(err))
	}
	defer reader.Close()

	body, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, key, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("object gs://%s/%s is larger than %d bytes: %w", bucket, key, maxBytes, ErrObjectTooLarge)
	}
	return body, nil
}

// Put writes data to gs://bucket/key, replacing any existing object.
func (s *Storage) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	writer := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		slog.Error("Failed to copy content to GCS object", "bucket", bucket, "object", key, "error", err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		slog.Error("Failed to close GCS writer", "bucket", bucket, "object", key, "error", err)
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// ListPage returns one page of objects under prefix and the token for the
// next page. An empty token means the listing is complete.
func (s *Storage) ListPage(ctx context.Context, bucket, prefix, pageToken string, pageSize int) ([]ObjectInfo, string, error) {
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	pager := iterator.NewPager(it, pageSize, pageToken)

	var attrs []*storage.ObjectAttrs
	next, err := pager.NextPage(&attrs)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list gs://%s/%s: %w", bucket, prefix, err)
	}

	objects := make([]ObjectInfo, 0, len(attrs))
	for _, a := range attrs {
		objects = append(objects, ObjectInfo{Key: a.Name, Size: a.Size, LastModified: a.Updated})
	}
	return objects, next, nil
}

// Exists reports whether gs://bucket/key is present.
func (s *Storage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(mapNotFound(err), ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat gs://%s/%s: %w", bucket, key, err)
}

// Delete removes gs://bucket/key.
func (s *Storage) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete gs://%s/%s: %w", bucket, key, mapNotFound(err))
	}
	return nil
}

// PresignGet issues a V4 signed URL allowing a GET of bucket/key until ttl elapses.
func (s *Storage) PresignGet(bucket, key string, ttl time.Duration) (string, error) {
	return s.signedURL(bucket, key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
}

// PresignPut issues a V4 signed URL allowing a PUT to bucket/key. When
// contentType is set the uploader must send the same Content-Type header.
func (s *Storage) PresignPut(bucket, key string, ttl time.Duration, contentType string) (string, error) {
	return s.signedURL(bucket, key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		Expires:     time.Now().Add(ttl),
		ContentType: contentType,
	})
}

func (s *Storage) signedURL(bucket, key string, opts *storage.SignedURLOptions) (string, error) {
	url, err := s.client.Bucket(bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s URL for gs://%s/%s: %w", opts.Method, bucket, key, err)
	}
	return url, nil
}

// Close releases the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

package storage

import (
	"context"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// NewGCSClient initializes a Google Cloud Storage client. Explicit JSON
// credentials win when provided; otherwise application default credentials
// apply (e.g. the Cloud Run service account).
func NewGCSClient(ctx context.Context, credentialsJSON string) (*gcs.Client, error) {
	if strings.TrimSpace(credentialsJSON) != "" {
		return gcs.NewClient(ctx, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	return gcs.NewClient(ctx)
}

// GCSStore is a BlobStore backed by a single Google Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore creates a BlobStore over the given bucket.
func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

var _ portssvc.BlobStore = (*GCSStore)(nil)

// Upload writes the object, overwriting any existing one with the same name,
// and returns its public URL.
func (s *GCSStore) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("bucket name is not configured")
	}

	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload of %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

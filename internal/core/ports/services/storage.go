package services

import "context"

// BlobStore abstracts the object storage collaborator. Uploads overwrite on
// name conflict and return a public URL for the stored object.
type BlobStore interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

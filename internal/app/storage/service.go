/*
Package storage keeps event cover images in S3-compatible object storage.

Covers are uploaded when staff create or edit an event with an image file, and the public
URL of the object becomes the event's image. A cover whose event was then rejected by the
remote service is deleted again.
*/
package storage

import (
	"context"
	"io"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// S3PublicURL is the public base URL objects are served from.
	S3PublicURL string
}

// Object is a stored cover.
type Object struct {
	Key string
	URL string
}

// CoverStore defines the public interface of the cover storage.
type CoverStore interface {
	// Upload stores body under a new key and returns where it can be fetched.
	Upload(ctx context.Context, cover Cover, body io.Reader) (Object, error)

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

// NewCoverStore is the factory function for CoverStore.
// Only S3-compatible backends are supported.
func NewCoverStore(cfg ServiceConfig) (CoverStore, error) {
	return newS3Client(cfg)
}

// Package storage is the file store behind report images and avatars:
// upload-by-path with an overwrite option, plus public URL retrieval.
package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
)

// FileStore uploads objects by path and resolves their public URLs.
type FileStore interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader, overwrite bool) error
	PublicURL(path string) string
}

// BucketStore implements FileStore on the Firebase default bucket.
type BucketStore struct {
	client  *fbstorage.Client
	bucket  string
	baseURL string
}

// NewBucketStore creates a store for the named bucket. baseURL is the
// public host objects are served from.
func NewBucketStore(client *fbstorage.Client, bucket, baseURL string) *BucketStore {
	return &BucketStore{client: client, bucket: bucket, baseURL: baseURL}
}

// Upload writes the object at path. Without overwrite, an existing object
// at the same path fails the upload.
func (s *BucketStore) Upload(ctx context.Context, path, contentType string, body io.Reader, overwrite bool) error {
	bucket, err := s.client.Bucket(s.bucket)
	if err != nil {
		return fmt.Errorf("failed to open bucket %s: %w", s.bucket, err)
	}

	obj := bucket.Object(path)
	if !overwrite {
		obj = obj.If(gcs.Conditions{DoesNotExist: true})
	}

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s: %w", path, err)
	}
	return nil
}

// PublicURL returns the address the object is served from.
func (s *BucketStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, path)
}

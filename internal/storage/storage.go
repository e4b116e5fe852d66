// Package storage contains file storage abstractions: a local-disk upload
// store for audio artifacts (the transcription pipeline needs filesystem
// paths) and an S3-compatible object store used to archive persisted audio.
package storage

import (
	"context"
	"io"
	"time"
)

// UploadStore persists uploaded audio streams on durable storage and hands
// back path references that the rest of the pipeline can open directly.
type UploadStore interface {
	// Save validates the filename extension, generates a collision-free name
	// and writes the stream in bounded-size chunks. Returns the stored path.
	// The caller remains responsible for closing r.
	Save(ctx context.Context, r io.Reader, originalFilename string) (string, error)
	// Remove deletes a stored artifact. Missing files are not an error.
	Remove(path string) error
	// Exists reports whether the referenced artifact is still on storage.
	Exists(path string) bool
}

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectStorage is an S3-compatible object storage client used to mirror
// audio artifacts into a bucket. Methods use context and streaming readers.
type ObjectStorage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
}

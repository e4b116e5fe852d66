package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// copyChunkSize bounds memory use per upload regardless of input size.
const copyChunkSize = 1 << 20 // 1 MiB

// ErrUnsupportedFormat is returned when an upload's extension is not in the
// audio allow-list.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// allowedExtensions is the audio container allow-list for uploads.
var allowedExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".ogg":  {},
	".webm": {},
}

// LocalStore writes uploaded audio to a designated directory on local disk.
// Safe for concurrent use; generated names never collide.
type LocalStore struct {
	dir string
}

var _ UploadStore = (*LocalStore)(nil)

// NewLocalStore creates the upload directory if needed and returns a store
// rooted at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save streams r to a freshly named file, preserving the original extension.
// On any write failure the partial file is deleted before the error surfaces.
func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	dest := filepath.Join(s.dir, uuid.New().String()+ext)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	buf := make([]byte, copyChunkSize)
	if _, err := io.CopyBuffer(f, readerWithContext(ctx, r), buf); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return dest, nil
}

// Remove deletes a stored artifact; a file that is already gone is fine.
func (s *LocalStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

// Exists reports whether the referenced artifact is still on storage.
func (s *LocalStore) Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// readerWithContext makes long-running copies abort once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Package blobstore abstracts durable byte storage addressed by an opaque
// unique key. The metadata registry treats blob content as opaque; the only
// contract is write-whole, read-whole, delete, and key generation.
package blobstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrKeyNotFound is returned by Read when no blob exists under the key.
var ErrKeyNotFound = errors.New("blob key not found")

// BlobStore is the byte-storage boundary consumed by the file service.
//
// Write stores the full content under key and returns the byte count;
// a failed Write must leave no committed metadata behind (the caller orders
// blob write before metadata commit). Delete is best-effort: a missing key
// is not an error worth failing a metadata delete for.
type BlobStore interface {
	Write(ctx context.Context, key string, r io.Reader) (int64, error)
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey generates a fresh globally-unique storage key for a file with the
// given display name. The random UUID prefix makes collisions negligible;
// the sanitized name suffix keeps keys readable in the bucket.
func NewKey(displayName string) string {
	name := filepath.Base(displayName)
	name = strings.ReplaceAll(name, "/", "_")
	return uuid.New().String() + "_" + name
}

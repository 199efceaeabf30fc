package object

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotExist is returned by Open when the key has no object.
var ErrNotExist = errors.New("object does not exist")

// ObjectStore defines the contract for saving and retrieving binary objects.
// Storage keys are opaque and must never be exposed to API clients.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// SniffLen is the number of leading bytes used for content detection.
const SniffLen = 3072

// DetectMIME returns the content type of head without parameters.
func DetectMIME(head []byte) string {
	full := mimetype.Detect(head).String()
	base, _, _ := strings.Cut(full, ";")
	return strings.TrimSpace(base)
}

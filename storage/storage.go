package storage

import (
	"context"
	"errors"
)

var ErrDoesNotExist = errors.New("does not exist")

// System defines the operations for interacting with a storage backend.
// Keys address whole document or item blobs.
type System interface {
	// Write stores data under key, replacing anything already there.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the blob stored under key, or ErrDoesNotExist.
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob under key.  Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	GetKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

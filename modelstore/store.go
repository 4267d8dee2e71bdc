// Package modelstore persists trained-model artifacts.
//
// A trained booster serializes to an opaque blob; workers and drivers save
// and reload these blobs through a Store. Backends: in-memory (tests),
// local filesystem, and S3 (see the s3 subpackage). Artifacts can be
// transparently compressed with WithCodec.
package modelstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named artifact does not exist.
var ErrNotFound = errors.New("model artifact not found")

// Store is an abstraction for persisting opaque model artifacts.
type Store interface {
	// Put writes an artifact atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error

	// Open reads an artifact in full.
	Open(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all artifacts with the given prefix,
	// sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes an artifact. Deleting a missing artifact is not an
	// error.
	Delete(ctx context.Context, name string) error
}

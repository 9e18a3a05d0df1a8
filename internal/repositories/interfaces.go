// Package repositories defines the key-value persistence contract the sync
// core stores its state behind. Values are JSON-encoded blobs keyed by a small
// fixed set of names; absence of a key is the normal "not yet initialized"
// case, not an error.
package repositories

import (
	"context"
	"errors"
)

// Persisted keys. The remote push credential is optional and only present
// after the user has supplied one.
const (
	KeyCurrentUser = "currentUser"
	KeyUsers       = "users"
	KeySubjects    = "subjects"
	KeySchedule    = "schedule"
	KeyLastUpdated = "lastUpdated"
	KeyPushToken   = "githubToken"
)

var (
	// ErrKeyNotFound marks a key that has never been written (or was deleted).
	ErrKeyNotFound = errors.New("key not found")

	// ErrStorage marks the underlying medium being unavailable or corrupt.
	ErrStorage = errors.New("storage unavailable")
)

// KeyValueStore is the persistence adapter: durable string-keyed blobs with
// no further semantics. Implementations wrap backend failures with ErrStorage
// and report absence with ErrKeyNotFound.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

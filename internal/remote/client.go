// Package remote talks to the shared document store: a versioned JSON
// document (users, subjects, schedule, lastUpdated) plus a lightweight
// metadata companion carrying just the version stamp. Reads are plain GETs
// against raw endpoints; writes go through a contents-style API with an
// optimistic revision check per artifact.
package remote

import (
	"context"
	"errors"

	"github.com/Memaso-max/schedule-sync-service/internal/models"
)

var (
	// ErrRemoteUnavailable marks network failures and non-success responses.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrRemoteFormat marks a payload that cannot be parsed into the expected
	// document shape.
	ErrRemoteFormat = errors.New("malformed remote document")

	// ErrAuthRequired marks a push attempted without a usable credential, or
	// one the store rejected.
	ErrAuthRequired = errors.New("push credential required")
)

// Metadata is the contents of the companion document.
type Metadata struct {
	LastUpdated string `json:"lastUpdated"`
}

// Client is the remote document store seen by the sync core.
type Client interface {
	// FetchDocument downloads the full snapshot. Collections missing from the
	// payload come back as empty slices.
	FetchDocument(ctx context.Context) (*models.Snapshot, error)

	// FetchMetadata downloads just the version stamp. Best-effort: callers
	// fall back to FetchDocument when it fails.
	FetchMetadata(ctx context.Context) (Metadata, error)

	// PushDocument uploads the snapshot and its metadata companion, each
	// conditioned on the revision currently stored remotely. If the backend
	// ignores the condition, the last write wins; that is the accepted
	// behavior, not something to lock around.
	PushDocument(ctx context.Context, snap *models.Snapshot, message string) (Metadata, error)
}

// CredentialProvider supplies the bearer credential for pushes. Token returns
// ErrAuthRequired when no credential is available.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

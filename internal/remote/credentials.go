package remote

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

// StaticToken is a fixed credential, typically injected from config.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	if t == "" {
		return "", ErrAuthRequired
	}
	return string(t), nil
}

// EnvToken reads the credential from an environment variable on every push,
// so rotations take effect without a restart.
type EnvToken string

func (t EnvToken) Token(ctx context.Context) (string, error) {
	val := os.Getenv(string(t))
	if val == "" {
		return "", ErrAuthRequired
	}
	return val, nil
}

// StoredToken reads the credential the user saved in local persistence. This
// replaces the old habit of the push path itself caching the token: the
// provider is explicit and injected, storage stays a dumb blob.
type StoredToken struct {
	KV repositories.KeyValueStore
}

func (t StoredToken) Token(ctx context.Context) (string, error) {
	val, err := t.KV.Get(ctx, repositories.KeyPushToken)
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			return "", ErrAuthRequired
		}
		return "", err
	}
	// Stored values are JSON-encoded; tolerate legacy plain strings.
	var token string
	if err := json.Unmarshal([]byte(val), &token); err != nil {
		token = val
	}
	if token == "" {
		return "", ErrAuthRequired
	}
	return token, nil
}

package kv

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the persistence surface for session state: one key holding
// one value, fully rewritten on every update.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// PersistenceReadError wraps a failure to read or parse persisted state.
// It is recovered locally (the caller substitutes an empty session list)
// and never surfaced to the user.
type PersistenceReadError struct {
	Err error
}

func (e *PersistenceReadError) Error() string {
	return "persisted state unreadable: " + e.Err.Error()
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

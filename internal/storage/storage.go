package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the key has no value.
	ErrNotFound = errors.New("key not found")
	// ErrCapacity means the backing store refused the write for lack of
	// room. Callers may retry with a smaller value.
	ErrCapacity = errors.New("store capacity exceeded")
)

// KV is the per-device state surface: cart lines, pending checkouts and
// cached exchange rates all live behind it as JSON values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

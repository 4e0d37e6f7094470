package ports

import "context"

// KeyValueStore is a persistent string store backend (file, Redis, memory).
// Get returns domain.ErrKeyNotFound for a missing key; Delete of a missing key
// is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Storage is the view of persistent storage the client stores work against.
// Operations never fail: an unavailable backend reads as absent and ignores
// writes.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// Package kv persists client state the way a browser's local storage would:
// string values under string keys that outlive the process.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
)

const defaultOpTimeout = 2 * time.Second

// Bridge adapts a KeyValueStore backend to ports.Storage. Backend failures are
// logged and swallowed; a nil backend turns every operation into a no-op.
type Bridge struct {
	backend ports.KeyValueStore
	timeout time.Duration
	log     zerolog.Logger
}

var _ ports.Storage = (*Bridge)(nil)

// NewBridge wraps backend. Pass a nil backend when no persistent storage is
// available.
func NewBridge(backend ports.KeyValueStore, log zerolog.Logger) *Bridge {
	return &Bridge{backend: backend, timeout: defaultOpTimeout, log: log}
}

// Available reports whether a backend is attached.
func (b *Bridge) Available() bool {
	return b != nil && b.backend != nil
}

func (b *Bridge) Get(key string) (string, bool) {
	if !b.Available() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	v, err := b.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			b.log.Warn().Err(err).Str("key", key).Msg("storage read failed")
		}
		return "", false
	}
	return v, true
}

func (b *Bridge) Set(key, value string) {
	if !b.Available() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.backend.Set(ctx, key, value); err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("storage write failed")
	}
}

func (b *Bridge) Remove(key string) {
	if !b.Available() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.backend.Delete(ctx, key); err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("storage delete failed")
	}
}

// Ping checks the backend. A bridge without backend reports an error.
func (b *Bridge) Ping(ctx context.Context) error {
	if !b.Available() {
		return errors.New("no persistent storage configured")
	}
	return b.backend.Ping(ctx)
}

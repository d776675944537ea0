package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arcten/timeshard/types"
)

// NATSKV implements types.BlobStore on a NATS JetStream KeyValue bucket.
//
// JetStream KV puts replace the whole value atomically and gets return a
// consistent snapshot, which satisfies the protocol's no-partial-write
// requirement without extra locking.
type NATSKV struct {
	kv jetstream.KeyValue
}

var _ types.BlobStore = (*NATSKV)(nil)

// NewNATSKV wraps an existing KV bucket handle.
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	kv, _ := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: "timeshard-config", History: 1})
//	blobs := store.NewNATSKV(kv)
func NewNATSKV(kv jetstream.KeyValue) *NATSKV {
	return &NATSKV{kv: kv}
}

// Get returns the value at key, mapping the KV client's missing-key error to
// types.ErrBlobNotFound.
func (s *NATSKV) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", types.ErrBlobNotFound, key)
		}

		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	return entry.Value(), nil
}

// Put replaces the value at key, creating it if absent.
func (s *NATSKV) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	return nil
}

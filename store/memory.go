package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/arcten/timeshard/types"
)

// Memory implements types.BlobStore with an in-process map. Values are copied
// on both read and write so callers cannot alias the stored bytes.
//
// Intended for tests and single-process demos.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ types.BlobStore = (*Memory)(nil)

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get returns a copy of the value at key or types.ErrBlobNotFound.
func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrBlobNotFound, key)
	}

	out := make([]byte, len(value))
	copy(out, value)

	return out, nil
}

// Put replaces the value at key.
func (s *Memory) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.blobs[key] = stored

	return nil
}

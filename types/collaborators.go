package types

import (
	"context"
	"syscall"
)

// Inventory enumerates the current replica fleet.
//
// Implementations query external systems (a presence registry, an orchestrator
// API, a static list for tests). The coordinator calls ListReplicas once per
// reconciliation cycle; replicas that disappear between cycles are simply
// absent from the next assignment set, so implementations need no
// decommission bookkeeping.
type Inventory interface {
	// ListReplicas returns the replicas currently in the fleet matching the
	// selector. An empty selector matches everything. Transient failures are
	// returned as errors and retried next cycle.
	ListReplicas(ctx context.Context, selector string) ([]Replica, error)
}

// BlobStore is the shared key-value blob store coupling the coordinator to
// the agents. It must provide atomic whole-object reads and atomic
// replace-or-create writes: a reader never observes a partially written blob.
//
// Only the coordinator writes; agents only read. Single-writer,
// multiple-reader, so no distributed locking is required beyond the store's
// own atomicity.
type BlobStore interface {
	// Get returns the value stored at key, or an error wrapping
	// ErrBlobNotFound if the key has no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value at key, creating it if absent.
	Put(ctx context.Context, key string, value []byte) error
}

// ProcessSignaler locates the target process and delivers an OS signal to it.
//
// Implementations must deliver at most one signal per call (the first match
// wins) and return an error wrapping ErrProcessNotFound when nothing matches
// the pattern. Lookup is immediate, not timed out.
type ProcessSignaler interface {
	Signal(ctx context.Context, pattern string, sig syscall.Signal) error
}

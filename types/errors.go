package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the timeshard library.
//
// Components wrap these with context using fmt.Errorf("...: %w", err) so
// callers can classify failures with errors.Is. The split mirrors the error
// taxonomy of the propagation protocol: configuration errors are fatal at
// construction, everything else is retried by the owning loop.
var (
	// ErrInvalidConfig is returned when the runtime configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidPolicy is returned when the sharding policy cannot produce
	// well-formed windows. Fatal at startup; never retried into.
	ErrInvalidPolicy = errors.New("invalid sharding policy")

	// ErrBlobStoreRequired is returned when the blob store is nil.
	ErrBlobStoreRequired = errors.New("blob store is required")

	// ErrInventoryRequired is returned when the replica inventory is nil.
	ErrInventoryRequired = errors.New("replica inventory is required")

	// ErrIdentityRequired is returned when an agent is built without its own
	// replica identity.
	ErrIdentityRequired = errors.New("replica identity is required")

	// ErrAlreadyRunning is returned when Run is called on a loop that is
	// already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrBlobNotFound is returned by a BlobStore when the key has no value.
	// Expected before the first coordinator cycle completes.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrAssignmentNotFound means the published set has no entry for this
	// replica, by identity or by ordinal. Not an error state: expected
	// during scale-up races, the agent skips the cycle.
	ErrAssignmentNotFound = errors.New("no assignment for this replica")

	// ErrNoWindows is returned when resolving against an empty window list,
	// which only happens on a fatal configuration error.
	ErrNoWindows = errors.New("no shard windows planned")

	// ErrProcessNotFound is returned when no process matches the target
	// pattern. Logged by the agent, never fatal.
	ErrProcessNotFound = errors.New("target process not found")
)

// IsNoKeysFoundError reports whether err is the NATS KV "no keys found"
// condition, which the KV client surfaces as an error but which simply means
// the bucket is empty.
//
// The error may arrive direct ("nats: no keys found") or wrapped, so a
// substring check is used in addition to the sentinel comparison.
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "no keys found")
}

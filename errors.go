package timeshard

import "github.com/arcten/timeshard/types"

// Sentinel errors returned by the Coordinator and Agent, re-exported from the
// types package so callers can classify failures with errors.Is without
// importing both packages.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrInvalidPolicy is returned when the sharding policy cannot produce
	// well-formed windows.
	ErrInvalidPolicy = types.ErrInvalidPolicy

	// ErrBlobStoreRequired is returned when the blob store is nil.
	ErrBlobStoreRequired = types.ErrBlobStoreRequired

	// ErrInventoryRequired is returned when the replica inventory is nil.
	ErrInventoryRequired = types.ErrInventoryRequired

	// ErrIdentityRequired is returned when an agent is built without its own
	// replica identity.
	ErrIdentityRequired = types.ErrIdentityRequired

	// ErrAlreadyRunning is returned when Run is called on a loop that is
	// already running.
	ErrAlreadyRunning = types.ErrAlreadyRunning

	// ErrBlobNotFound is returned when the assignment set has not been
	// published yet.
	ErrBlobNotFound = types.ErrBlobNotFound

	// ErrAssignmentNotFound means the published set has no entry for this
	// replica, by identity or by ordinal.
	ErrAssignmentNotFound = types.ErrAssignmentNotFound

	// ErrNoWindows is returned when resolving against an empty window list.
	ErrNoWindows = types.ErrNoWindows

	// ErrProcessNotFound is returned when no process matches the target
	// pattern.
	ErrProcessNotFound = types.ErrProcessNotFound
)

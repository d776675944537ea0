package types

import "context"

// Hooks are optional callbacks fired by the coordinator and agent loops.
// Hook errors are logged and never interrupt the owning loop.
type Hooks struct {
	// OnPublished fires after the coordinator writes a new assignment set.
	// It does not fire when an identical set is skipped.
	OnPublished func(ctx context.Context, set *AssignmentSet) error

	// OnAssignmentApplied fires after an agent rewrites the local runtime
	// config for a changed assignment, before signal delivery completes.
	OnAssignmentApplied func(ctx context.Context, previous, current ReplicaAssignment) error
}

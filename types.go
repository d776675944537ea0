package timeshard

import "github.com/arcten/timeshard/types"

// Re-export types from the types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal packages
// to depend on `types` without depending on the root `timeshard` package,
// while still providing a convenient `timeshard.ShardWindow`, `timeshard.Logger`,
// etc. for users.
type (
	ShardingPolicy    = types.ShardingPolicy
	ShardWindow       = types.ShardWindow
	TimeRange         = types.TimeRange
	Replica           = types.Replica
	ReplicaAssignment = types.ReplicaAssignment
	AssignmentSet     = types.AssignmentSet
	OperatorInfo      = types.OperatorInfo
	TargetRuntime     = types.TargetRuntime
	CoordinatorState  = types.CoordinatorState
	AgentState        = types.AgentState
)

// Re-export interfaces from the types package for convenience.
type (
	Inventory        = types.Inventory
	BlobStore        = types.BlobStore
	ProcessSignaler  = types.ProcessSignaler
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export state constants from the types package.
const (
	CoordinatorIdle        = types.CoordinatorIdle
	CoordinatorEnumerating = types.CoordinatorEnumerating
	CoordinatorPlanning    = types.CoordinatorPlanning
	CoordinatorPublishing  = types.CoordinatorPublishing

	AgentWatching   = types.AgentWatching
	AgentExtracting = types.AgentExtracting
	AgentRewriting  = types.AgentRewriting
	AgentSignaling  = types.AgentSignaling
)

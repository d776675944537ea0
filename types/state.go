package types

// CoordinatorState tracks where the coordinator is within a reconciliation
// cycle:
//
//	Idle → Enumerating → Planning → Publishing → Idle
//
// A cycle either completes or fails outright and is retried next interval;
// there is no mid-cycle cancellation.
type CoordinatorState int32

const (
	// CoordinatorIdle means the coordinator is sleeping between cycles.
	CoordinatorIdle CoordinatorState = iota

	// CoordinatorEnumerating means the coordinator is listing the fleet.
	CoordinatorEnumerating

	// CoordinatorPlanning means shard windows are being computed and resolved.
	CoordinatorPlanning

	// CoordinatorPublishing means the assignment set is being written out.
	CoordinatorPublishing
)

// String returns the state name.
func (s CoordinatorState) String() string {
	switch s {
	case CoordinatorIdle:
		return "Idle"
	case CoordinatorEnumerating:
		return "Enumerating"
	case CoordinatorPlanning:
		return "Planning"
	case CoordinatorPublishing:
		return "Publishing"
	default:
		return "Unknown"
	}
}

// AgentState tracks where a replica agent is within a poll cycle:
//
//	Watching → (unchanged: sleep) | (changed: Extracting → Rewriting → Signaling) → Watching
type AgentState int32

const (
	// AgentWatching means the agent is polling for a changed assignment set.
	AgentWatching AgentState = iota

	// AgentExtracting means a change was detected and the agent is locating
	// its own assignment.
	AgentExtracting

	// AgentRewriting means the agent is updating the target's runtime config.
	AgentRewriting

	// AgentSignaling means the agent is delivering the reload signal.
	AgentSignaling
)

// String returns the state name.
func (s AgentState) String() string {
	switch s {
	case AgentWatching:
		return "Watching"
	case AgentExtracting:
		return "Extracting"
	case AgentRewriting:
		return "Rewriting"
	case AgentSignaling:
		return "Signaling"
	default:
		return "Unknown"
	}
}

package types

import (
	"sort"
	"time"
)

// ReplicaAssignment binds one replica ordinal to one shard window.
//
// Assignments are derived each coordinator cycle and never stored outside the
// published set.
type ReplicaAssignment struct {
	ReplicaOrdinal uint `json:"replica_ordinal" yaml:"replica_ordinal"`
	ShardIndex     uint `json:"shard_index" yaml:"shard_index"`

	// TimeRange is the assigned window in its nested, canonical form.
	TimeRange TimeRange `json:"time_range" yaml:"time_range"`

	// MinTime/MaxTime are an accepted flat alternative to TimeRange for
	// compatibility with producers that publish the bounds at the top level
	// of the entry. The nested form takes precedence when both are present.
	MinTime *time.Time `json:"min_time,omitempty" yaml:"min_time,omitempty"`
	MaxTime *time.Time `json:"max_time,omitempty" yaml:"max_time,omitempty"`
}

// Window returns the assignment's effective time range.
//
// The nested TimeRange wins; the flat min_time/max_time pair is the fallback.
// ok is false when the assignment carries no usable window, in which case the
// agent must skip the cycle rather than reload on incomplete data.
func (a ReplicaAssignment) Window() (TimeRange, bool) {
	if !a.TimeRange.IsZero() {
		return a.TimeRange, true
	}
	if a.MinTime != nil && a.MaxTime != nil {
		return TimeRange{
			MinTime:      *a.MinTime,
			MaxTime:      *a.MaxTime,
			MinTimestamp: a.MinTime.Unix(),
			MaxTimestamp: a.MaxTime.Unix(),
		}, true
	}

	return TimeRange{}, false
}

// OperatorInfo is the coordinator section of the published set. It echoes the
// coordinator's own settings so agents and operators can inspect the source
// of an assignment without access to the coordinator's config file.
type OperatorInfo struct {
	// UpdateInterval is the coordinator reconciliation interval.
	UpdateInterval time.Duration `json:"update_interval" yaml:"update_interval"`

	// Namespace scopes the fleet within the hosting environment.
	Namespace string `json:"namespace" yaml:"namespace"`

	// GroupSelector filters inventory enumeration to this fleet.
	GroupSelector string `json:"group_selector" yaml:"group_selector"`
}

// TargetRuntime describes the archive-server process an agent manages.
type TargetRuntime struct {
	GRPCPort int `json:"grpc_port" yaml:"grpc_port"`
	HTTPPort int `json:"http_port" yaml:"http_port"`

	// ReloadSignal selects how the target picks up a new window: "SIGHUP"
	// for in-place reload, "SIGTERM" for a restart under an external
	// supervisor.
	ReloadSignal string `json:"reload_signal" yaml:"reload_signal"`

	// ConfigPath is the target process's local runtime config file. The
	// agent owns exactly its min_time/max_time fields.
	ConfigPath string `json:"config_path" yaml:"config_path"`

	// ProcessPattern is matched against process command lines to locate the
	// target for signal delivery.
	ProcessPattern string `json:"process_pattern" yaml:"process_pattern"`
}

// AssignmentSet is the full published assignment state: one entry per
// currently observed replica plus the policy and runtime parameters that
// produced it.
//
// The set is replaced wholesale every coordinator cycle; there is no
// incremental merge. Agents treat it as read-only.
type AssignmentSet struct {
	Operator    OperatorInfo                 `json:"operator" yaml:"operator"`
	Sharding    ShardingPolicy               `json:"sharding" yaml:"sharding"`
	Target      TargetRuntime                `json:"target" yaml:"target"`
	Replicas    map[string]ReplicaAssignment `json:"replicas" yaml:"replicas"`
	LastUpdated time.Time                    `json:"last_updated" yaml:"last_updated"`
}

// FindAssignment locates the assignment for a replica.
//
// Lookup precedence is explicit: an exact identity match wins; otherwise all
// entries are scanned (in identity order, for determinism) for one whose
// recorded ordinal matches. The ordinal fallback is a compatibility path for
// heterogeneous identity schemes where the publisher and the replica disagree
// on naming but agree on ordinals.
func (s *AssignmentSet) FindAssignment(identity string, ordinal uint) (ReplicaAssignment, bool) {
	if a, ok := s.Replicas[identity]; ok {
		return a, true
	}

	names := make([]string, 0, len(s.Replicas))
	for name := range s.Replicas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if a := s.Replicas[name]; a.ReplicaOrdinal == ordinal {
			return a, true
		}
	}

	return ReplicaAssignment{}, false
}

package types

import "fmt"

// ShardingPolicy describes how the archive's retention period is cut into
// overlapping time shards and how many replicas serve each shard.
//
// The policy is immutable within a reconciliation cycle: the coordinator reads
// it once per cycle and plans the whole fleet from it.
type ShardingPolicy struct {
	// TotalShards is the number of time shards to plan. Shard 0 is the
	// newest ("hot") shard and always covers live data plus a future buffer.
	TotalShards uint `json:"total_shards" yaml:"total_shards"`

	// ReplicasPerShard is the replica fan-out per shard. Replica ordinals
	// map to shards by integer division with this value.
	ReplicasPerShard uint `json:"replicas_per_shard" yaml:"replicas_per_shard"`

	// RetentionDays is the total retention period of the archive in days.
	RetentionDays uint `json:"data_retention_days" yaml:"data_retention_days"`

	// OverlapDays is the exact wall-clock overlap between adjacent shard
	// windows. Overlap guarantees a query spanning a shard boundary is
	// answerable by at least one of the two adjacent shards.
	OverlapDays uint `json:"shard_overlap_days" yaml:"shard_overlap_days"`

	// FutureBufferHours extends shard 0's upper bound into the future so
	// in-flight writes never fall outside every shard's range.
	FutureBufferHours uint `json:"future_buffer_hours" yaml:"future_buffer_hours"`
}

// DaysPerShard returns the width of each shard window in days, including the
// configured overlap. Returns 0 when TotalShards is 0.
func (p ShardingPolicy) DaysPerShard() int {
	if p.TotalShards == 0 {
		return 0
	}

	return int(p.RetentionDays)/int(p.TotalShards) + int(p.OverlapDays)
}

// Validate checks the policy invariants.
//
// Rules:
//   - TotalShards >= 1
//   - ReplicasPerShard >= 1
//   - DaysPerShard() >= 1 (a zero-width shard can never serve data)
//
// Returns:
//   - error: ErrInvalidPolicy wrapped with the violated rule, nil if valid
func (p ShardingPolicy) Validate() error {
	if p.TotalShards < 1 {
		return fmt.Errorf("%w: total_shards must be >= 1, got %d", ErrInvalidPolicy, p.TotalShards)
	}
	if p.ReplicasPerShard < 1 {
		return fmt.Errorf("%w: replicas_per_shard must be >= 1, got %d", ErrInvalidPolicy, p.ReplicasPerShard)
	}
	if p.DaysPerShard() < 1 {
		return fmt.Errorf(
			"%w: days per shard is %d (retention %d days across %d shards with %d overlap days)",
			ErrInvalidPolicy, p.DaysPerShard(), p.RetentionDays, p.TotalShards, p.OverlapDays,
		)
	}

	return nil
}

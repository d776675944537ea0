package planner

import (
	"fmt"
	"time"

	"github.com/arcten/timeshard/types"
)

// Plan computes the shard windows for the given policy anchored at now.
//
// The window geometry:
//
//   - days_per_shard = retention_days/total_shards + overlap_days
//   - shard 0 covers live data: max_time = now + future_buffer_hours,
//     min_time = max_time - days_per_shard
//   - shard i >= 1 steps back in strides of (days_per_shard - overlap_days):
//     max_time = now - i*stride, min_time = max_time - days_per_shard
//
// Subtracting the overlap from the stride rather than from the width makes
// adjacent windows (for i >= 1) overlap by exactly overlap_days, so a query
// spanning a boundary is answerable by one of the two adjacent shards with no
// cross-shard merge upstream. Shard 0 is anchored to now+buffer instead of
// now, so the hot shard always includes the future buffer; this asymmetry is
// intentional.
//
// Windows are returned ordered by shard index, which is also non-increasing
// max_time order.
//
// Parameters:
//   - policy: Sharding policy (validated here; days_per_shard <= 0 is a
//     configuration error)
//   - now: Anchor time; normalized to UTC
//
// Returns:
//   - []types.ShardWindow: One window per shard index in [0, total_shards)
//   - error: ErrInvalidPolicy wrapped with the violated rule
func Plan(policy types.ShardingPolicy, now time.Time) ([]types.ShardWindow, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	now = now.UTC()
	daysPerShard := policy.DaysPerShard()
	width := days(daysPerShard)
	stride := days(daysPerShard - int(policy.OverlapDays))
	buffer := time.Duration(policy.FutureBufferHours) * time.Hour

	windows := make([]types.ShardWindow, 0, policy.TotalShards)
	for i := uint(0); i < policy.TotalShards; i++ {
		var maxTime time.Time
		if i == 0 {
			maxTime = now.Add(buffer)
		} else {
			maxTime = now.Add(-time.Duration(i) * stride)
		}
		minTime := maxTime.Add(-width)

		windows = append(windows, types.ShardWindow{
			ShardIndex:  i,
			MinTime:     minTime,
			MaxTime:     maxTime,
			MinTimeUnix: minTime.Unix(),
			MaxTimeUnix: maxTime.Unix(),
			DaysCovered: uint(daysPerShard),
			OverlapDays: policy.OverlapDays,
		})
	}

	return windows, nil
}

// Resolve maps a replica ordinal to its shard window.
//
// shard_index = ordinal / replicasPerShard. An index past the planned windows
// clamps to the last (oldest) shard: the oldest shard absorbs excess replicas
// rather than failing. This silently routes surplus replicas to stale data,
// which is a deliberate policy choice, so scale-ups beyond the planned fleet
// degrade gracefully instead of crashing agents.
//
// Parameters:
//   - ordinal: Replica ordinal within the fleet
//   - windows: Planned windows, ordered by shard index
//   - replicasPerShard: Replica fan-out per shard (>= 1)
//
// Returns:
//   - types.ShardWindow: The resolved window
//   - error: ErrNoWindows when windows is empty, ErrInvalidPolicy when
//     replicasPerShard is 0; both are fatal configuration errors
func Resolve(ordinal uint, windows []types.ShardWindow, replicasPerShard uint) (types.ShardWindow, error) {
	if len(windows) == 0 {
		return types.ShardWindow{}, types.ErrNoWindows
	}
	if replicasPerShard == 0 {
		return types.ShardWindow{}, fmt.Errorf("%w: replicas_per_shard must be >= 1", types.ErrInvalidPolicy)
	}

	shardIndex := int(ordinal / replicasPerShard)
	if shardIndex >= len(windows) {
		shardIndex = len(windows) - 1
	}

	return windows[shardIndex], nil
}

// days converts a day count to a wall-clock duration.
func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

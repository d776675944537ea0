package types

import "time"

// TimeRange is the propagated form of a shard window: the two bounds in both
// RFC 3339 and Unix-seconds representations.
//
// Both representations are published so consumers can pick whichever their
// query engine expects without re-parsing timestamps.
type TimeRange struct {
	MinTime      time.Time `json:"min_time" yaml:"min_time"`
	MaxTime      time.Time `json:"max_time" yaml:"max_time"`
	MinTimestamp int64     `json:"min_timestamp" yaml:"min_timestamp"`
	MaxTimestamp int64     `json:"max_timestamp" yaml:"max_timestamp"`
}

// IsZero reports whether the range carries no bounds at all.
func (r TimeRange) IsZero() bool {
	return r.MinTime.IsZero() && r.MaxTime.IsZero()
}

// ShardWindow is one planned time shard: a contiguous window of the archive
// assigned to one group of replicas.
//
// Invariants upheld by the planner:
//   - MinTime < MaxTime for every window
//   - windows for adjacent shard indices >= 1 overlap by exactly OverlapDays
//   - shard 0's MaxTime extends FutureBufferHours into the future
type ShardWindow struct {
	// ShardIndex is the 0-based shard position; 0 is the newest (hot) shard.
	ShardIndex uint `json:"shard_index" yaml:"shard_index"`

	MinTime     time.Time `json:"min_time" yaml:"min_time"`
	MaxTime     time.Time `json:"max_time" yaml:"max_time"`
	MinTimeUnix int64     `json:"min_time_unix" yaml:"min_time_unix"`
	MaxTimeUnix int64     `json:"max_time_unix" yaml:"max_time_unix"`

	// DaysCovered and OverlapDays record the window geometry for downstream
	// diagnostics; they are derived from the policy, not independent inputs.
	DaysCovered uint `json:"days_covered" yaml:"days_covered"`
	OverlapDays uint `json:"overlap_days" yaml:"overlap_days"`
}

// TimeRange converts the window into its propagated form.
func (w ShardWindow) TimeRange() TimeRange {
	return TimeRange{
		MinTime:      w.MinTime,
		MaxTime:      w.MaxTime,
		MinTimestamp: w.MinTime.Unix(),
		MaxTimestamp: w.MaxTime.Unix(),
	}
}

// Contains reports whether t falls inside the half-open window [MinTime, MaxTime).
func (w ShardWindow) Contains(t time.Time) bool {
	return !t.Before(w.MinTime) && t.Before(w.MaxTime)
}

// OverlapWith returns the intersection width between two windows. A zero or
// negative duration means the windows do not overlap.
func (w ShardWindow) OverlapWith(other ShardWindow) time.Duration {
	lo := w.MinTime
	if other.MinTime.After(lo) {
		lo = other.MinTime
	}
	hi := w.MaxTime
	if other.MaxTime.Before(hi) {
		hi = other.MaxTime
	}

	return hi.Sub(lo)
}

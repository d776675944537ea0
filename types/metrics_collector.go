package types

// MetricsCollector records operational events from the coordinator and agent
// loops. A no-op implementation is used when none is provided, so callers
// never need nil checks.
type MetricsCollector interface {
	// RecordReconcile records the outcome of one coordinator cycle.
	RecordReconcile(replicas int, success bool)

	// RecordPublish records whether a cycle actually wrote a new set
	// (changed) or skipped an identical one.
	RecordPublish(changed bool)

	// RecordPoll records whether an agent poll observed a changed blob.
	RecordPoll(changed bool)

	// RecordRewrite records the outcome of a local runtime config rewrite.
	RecordRewrite(success bool)

	// RecordSignal records a signal delivery attempt to the target process.
	RecordSignal(signal string, success bool)

	// RecordAnnounce records a presence announcement attempt.
	RecordAnnounce(identity string, success bool)
}

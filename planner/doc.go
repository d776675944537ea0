// Package planner computes shard time windows and resolves replica ordinals
// onto them.
//
// Both operations are pure: no I/O, no state, deterministic for fixed inputs.
// The coordinator calls Plan once per reconciliation cycle and Resolve once
// per replica.
package planner

// Package inventory provides replica inventory implementations for
// timeshard coordinators.
//
// An inventory answers one question: which replicas of the archive group
// exist right now? The coordinator enumerates them on every reconcile
// cycle and plans shard windows for each ordinal it finds.
//
// Two implementations are provided:
//
//   - Static: a fixed, in-memory list of replicas. Useful for testing and
//     deployments where the replica count is known at startup.
//   - KV: a NATS JetStream KV-backed inventory populated by Announcer
//     instances running alongside each replica. Entries carry a TTL so
//     crashed replicas disappear from the inventory automatically.
package inventory

// Package timeshard provides a Go library for assigning time-based data
// shards to archive-server replicas through a shared blob store.
//
// Timeshard splits an archive's retention period into overlapping time
// windows, maps each replica of a query-serving fleet to one window by its
// ordinal, and propagates the mapping without any direct connection between
// the two sides: a single Coordinator publishes the full assignment set to a
// blob store, and an Agent next to each replica polls the set, rewrites the
// replica's runtime config time bounds, and reloads the replica process.
//
// # Quick Start
//
// Coordinator side:
//
//	import "github.com/arcten/timeshard"
//
//	cfg := timeshard.DefaultConfig()
//	cfg.Sharding.TotalShards = 3
//	cfg.Sharding.RetentionDays = 370
//
//	coord, err := timeshard.NewCoordinator(&cfg, store, inventory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := coord.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Agent side, one per replica:
//
//	cfg := timeshard.DefaultConfig()
//	cfg.Identity = os.Getenv("POD_NAME")
//
//	agent, err := timeshard.NewAgent(&cfg, store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := agent.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Key Features
//
//   - Deterministic Planning: Windows derive from the policy and the UTC day,
//     so every cycle over an unchanged fleet plans the identical set
//   - Ordinal Mapping: Replica ordinals map to shards by integer division,
//     with out-of-range ordinals clamped to the oldest shard
//   - Change Detection: Agents fingerprint the published JSON blob and act
//     only on a changed fingerprint
//   - Targeted Rewrite: Agents own exactly the min_time/max_time fields of
//     the target's runtime config; every other field survives untouched
//   - Single Reload: Exactly one SIGHUP (or SIGTERM) per applied change
//
// # Architecture
//
// The coordinator cycles through:
//
//	Idle → Enumerating → Planning → Publishing → Idle
//
// and each agent through:
//
//	Watching → Extracting → Rewriting → Signaling → Watching
//
// The blob store is the only coupling point. Only the coordinator writes;
// agents only read, so no locking or election is needed beyond running a
// single coordinator.
//
// See the examples/ directory for complete working examples.
package timeshard

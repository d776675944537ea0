package timeshard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"gopkg.in/yaml.v3"

	"github.com/arcten/timeshard/internal/fingerprint"
	"github.com/arcten/timeshard/internal/logger"
	"github.com/arcten/timeshard/internal/metrics"
	"github.com/arcten/timeshard/planner"
	"github.com/arcten/timeshard/types"
)

// Coordinator is the single writer of the assignment set.
//
// Each reconciliation cycle enumerates the replica fleet, plans shard windows
// anchored to the current UTC day, resolves every replica's ordinal to a
// window, and publishes the resulting set to the blob store in YAML and JSON
// form. When the new set matches the published one the write is skipped, so
// agents only ever observe a changed fingerprint when an assignment actually
// moved.
//
// Exactly one coordinator must run against a given pair of publish keys.
// The loop assumes single-writer semantics; it performs no leader election.
type Coordinator struct {
	cfg       *Config
	store     types.BlobStore
	inventory types.Inventory
	logger    types.Logger
	metrics   types.MetricsCollector
	hooks     *types.Hooks
	clk       clock.Clock

	state atomic.Int32

	mu      sync.Mutex
	running bool
}

// NewCoordinator creates a coordinator for the given blob store and inventory.
//
// Missing config fields are defaulted; an invalid sharding policy or timing
// configuration is rejected here rather than surfacing as a failed cycle
// later.
//
// Parameters:
//   - cfg: Coordinator configuration (defaults applied in place)
//   - store: Blob store the assignment set is published to
//   - inv: Inventory the fleet is enumerated from
//   - opts: Optional logger, metrics, hooks, clock
//
// Returns:
//   - *Coordinator: Initialized coordinator (not yet running)
//   - error: ErrBlobStoreRequired, ErrInventoryRequired, or a validation error
//
// Example:
//
//	cfg := timeshard.DefaultConfig()
//	coord, err := timeshard.NewCoordinator(&cfg, store, inv,
//	    timeshard.WithLogger(logging.NewSlogDefault()),
//	)
//	if err != nil { /* handle */ }
//	err = coord.Run(ctx)
func NewCoordinator(cfg *Config, store types.BlobStore, inv types.Inventory, opts ...Option) (*Coordinator, error) {
	if store == nil {
		return nil, types.ErrBlobStoreRequired
	}
	if inv == nil {
		return nil, types.ErrInventoryRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	return &Coordinator{
		cfg:       cfg,
		store:     store,
		inventory: inv,
		logger:    o.logger,
		metrics:   o.metrics,
		hooks:     o.hooks,
		clk:       o.clk,
	}, nil
}

// applyOptions resolves functional options against the nop defaults shared by
// Coordinator and Agent.
func applyOptions(opts []Option) *loopOptions {
	o := &loopOptions{
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
		clk:     clock.New(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes reconciliation cycles until the context is canceled.
//
// The first cycle runs immediately. A failed cycle is logged and retried
// after RetryInterval instead of waiting for the full update interval; an
// invalid sharding policy aborts the loop since retrying cannot fix it.
//
// Parameters:
//   - ctx: Context controlling the loop lifetime
//
// Returns:
//   - error: ErrAlreadyRunning if the loop is already active, ErrInvalidPolicy
//     on a fatal planning error, nil on context cancellation
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return types.ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.logger.Info("coordinator started",
		"updateInterval", c.cfg.Operator.UpdateInterval,
		"groupSelector", c.cfg.Operator.GroupSelector,
		"totalShards", c.cfg.Sharding.TotalShards,
	)

	for {
		delay := c.cfg.Operator.UpdateInterval

		if err := c.ReconcileOnce(ctx); err != nil {
			if errors.Is(err, types.ErrInvalidPolicy) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}

			c.logger.Error("reconcile cycle failed", "error", err)
			delay = c.cfg.RetryInterval
		}

		timer := c.clk.Timer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("coordinator stopped")

			return nil
		case <-timer.C:
		}
	}
}

// ReconcileOnce executes a single reconciliation cycle:
// enumerate → plan → resolve → publish.
//
// An empty fleet publishes an empty set rather than failing; agents treat a
// set without their entry as "no assignment yet" and skip the cycle.
//
// Parameters:
//   - ctx: Context for blob store and inventory calls
//
// Returns:
//   - error: Enumeration, planning, or publish error; nil on success or skip
func (c *Coordinator) ReconcileOnce(ctx context.Context) error {
	defer c.state.Store(int32(types.CoordinatorIdle))

	set, replicaCount, err := c.buildSet(ctx)
	if err != nil {
		c.metrics.RecordReconcile(replicaCount, false)
		return err
	}

	if err := c.publish(ctx, set); err != nil {
		c.metrics.RecordReconcile(replicaCount, false)
		return err
	}

	c.metrics.RecordReconcile(replicaCount, true)

	return nil
}

// State returns the coordinator's position within the current cycle.
func (c *Coordinator) State() types.CoordinatorState {
	return types.CoordinatorState(c.state.Load())
}

// buildSet enumerates the fleet and plans an assignment set for it.
//
// The set's LastUpdated field is left zero; publish stamps it only when the
// set is actually written.
func (c *Coordinator) buildSet(ctx context.Context) (*types.AssignmentSet, int, error) {
	c.state.Store(int32(types.CoordinatorEnumerating))

	listCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	replicas, err := c.inventory.ListReplicas(listCtx, c.cfg.Operator.GroupSelector)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to enumerate replicas: %w", err)
	}

	c.state.Store(int32(types.CoordinatorPlanning))

	// Anchor planning to the UTC day so cycles within the same day compute
	// identical windows and the publish step can skip unchanged sets. The
	// anchor rounds up to the next midnight: rounding down would let shard
	// 0's upper bound (anchor + future buffer) drift into the past as the
	// day progresses whenever the buffer is under 24 hours.
	now := c.clk.Now().UTC()
	anchor := now.Truncate(24 * time.Hour)
	if anchor.Before(now) {
		anchor = anchor.Add(24 * time.Hour)
	}

	windows, err := planner.Plan(c.cfg.Sharding, anchor)
	if err != nil {
		return nil, len(replicas), fmt.Errorf("failed to plan shard windows: %w", err)
	}

	entries := make(map[string]types.ReplicaAssignment, len(replicas))
	for _, replica := range replicas {
		window, err := planner.Resolve(replica.Ordinal, windows, c.cfg.Sharding.ReplicasPerShard)
		if err != nil {
			return nil, len(replicas), fmt.Errorf("failed to resolve replica %s: %w", replica.Identity, err)
		}

		entries[replica.Identity] = types.ReplicaAssignment{
			ReplicaOrdinal: replica.Ordinal,
			ShardIndex:     window.ShardIndex,
			TimeRange:      window.TimeRange(),
		}

		c.logger.Debug("resolved replica",
			"replica", replica.Identity,
			"ordinal", replica.Ordinal,
			"shard", window.ShardIndex,
			"minTime", window.MinTime,
			"maxTime", window.MaxTime,
		)
	}

	set := &types.AssignmentSet{
		Operator: c.cfg.Operator,
		Sharding: c.cfg.Sharding,
		Target:   c.cfg.Target,
		Replicas: entries,
	}

	return set, len(replicas), nil
}

// publish writes the set to both blob keys, unless the published set already
// matches it.
//
// YAML is written first: agents fingerprint the JSON key, so by the time an
// agent observes a changed JSON blob the YAML sibling is already consistent.
func (c *Coordinator) publish(ctx context.Context, set *types.AssignmentSet) error {
	c.state.Store(int32(types.CoordinatorPublishing))

	unchanged, err := c.matchesPublished(ctx, set)
	if err != nil {
		// Comparison is an optimization; a failed read falls through to a
		// normal publish.
		c.logger.Warn("failed to compare against published set", "error", err)
	}
	if unchanged {
		c.logger.Debug("assignment set unchanged, skipping publish", "replicas", len(set.Replicas))
		c.metrics.RecordPublish(false)

		return nil
	}

	set.LastUpdated = c.clk.Now().UTC()

	yamlData, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment set as YAML: %w", err)
	}

	jsonData, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment set as JSON: %w", err)
	}

	putCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	if err := c.store.Put(putCtx, c.cfg.Keys.YAML, yamlData); err != nil {
		return fmt.Errorf("failed to publish %s: %w", c.cfg.Keys.YAML, err)
	}

	if err := c.store.Put(putCtx, c.cfg.Keys.JSON, jsonData); err != nil {
		return fmt.Errorf("failed to publish %s: %w", c.cfg.Keys.JSON, err)
	}

	c.metrics.RecordPublish(true)
	c.logger.Info("published assignment set",
		"replicas", len(set.Replicas),
		"yamlKey", c.cfg.Keys.YAML,
		"jsonKey", c.cfg.Keys.JSON,
		"lastUpdated", set.LastUpdated,
	)

	if c.hooks != nil && c.hooks.OnPublished != nil {
		if err := c.hooks.OnPublished(ctx, set); err != nil {
			c.logger.Warn("OnPublished hook failed", "error", err)
		}
	}

	return nil
}

// matchesPublished reports whether the candidate set equals the published
// one, ignoring LastUpdated.
func (c *Coordinator) matchesPublished(ctx context.Context, set *types.AssignmentSet) (bool, error) {
	getCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	data, err := c.store.Get(getCtx, c.cfg.Keys.JSON)
	if err != nil {
		if errors.Is(err, types.ErrBlobNotFound) {
			return false, nil
		}

		return false, err
	}

	var published types.AssignmentSet
	if err := json.Unmarshal(data, &published); err != nil {
		// A corrupt blob is simply overwritten.
		return false, nil //nolint:nilerr
	}

	publishedFP, err := setFingerprint(&published)
	if err != nil {
		return false, err
	}

	candidateFP, err := setFingerprint(set)
	if err != nil {
		return false, err
	}

	return publishedFP == candidateFP, nil
}

// setFingerprint hashes a set's canonical JSON form with LastUpdated zeroed,
// so two sets differing only in publish time compare equal.
func setFingerprint(set *types.AssignmentSet) (uint64, error) {
	normalized := *set
	normalized.LastUpdated = time.Time{}

	data, err := json.Marshal(&normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint assignment set: %w", err)
	}

	return fingerprint.Sum(data), nil
}

package timeshard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/benbjohnson/clock"

	"github.com/arcten/timeshard/internal/fingerprint"
	"github.com/arcten/timeshard/internal/procsignal"
	"github.com/arcten/timeshard/internal/runtimecfg"
	"github.com/arcten/timeshard/types"
)

// Agent is the replica-side half of the propagation protocol.
//
// It runs alongside one archive-server replica, polls the published
// assignment set, and on a changed fingerprint locates its own entry,
// rewrites the target's runtime config time bounds, and delivers exactly one
// reload signal. Agents never write to the blob store.
//
// Missing blobs and missing entries are quiet skips, not errors: both are
// expected while the coordinator catches up with a fleet change.
type Agent struct {
	cfg      *Config
	store    types.BlobStore
	logger   types.Logger
	metrics  types.MetricsCollector
	hooks    *types.Hooks
	clk      clock.Clock
	signaler types.ProcessSignaler

	identity string
	ordinal  uint

	state atomic.Int32

	mu          sync.Mutex
	running     bool
	fingerprint uint64
	hasApplied  bool
	current     types.ReplicaAssignment
}

// NewAgent creates an agent for the given blob store.
//
// The identity must be set in the config: it comes from the hosting
// environment (typically the pod name) and is never discovered or claimed.
// The replica ordinal is derived from the identity's trailing numeric suffix.
//
// Parameters:
//   - cfg: Agent configuration (defaults applied in place)
//   - store: Blob store the assignment set is read from
//   - opts: Optional logger, metrics, hooks, clock, signaler
//
// Returns:
//   - *Agent: Initialized agent (not yet running)
//   - error: ErrBlobStoreRequired, ErrIdentityRequired, or a validation error
//
// Example:
//
//	cfg := timeshard.DefaultConfig()
//	cfg.Identity = os.Getenv("POD_NAME")
//	agent, err := timeshard.NewAgent(&cfg, store)
//	if err != nil { /* handle */ }
//	err = agent.Run(ctx)
func NewAgent(cfg *Config, store types.BlobStore, opts ...Option) (*Agent, error) {
	if store == nil {
		return nil, types.ErrBlobStoreRequired
	}
	if cfg.Identity == "" {
		return nil, types.ErrIdentityRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	if o.signaler == nil {
		o.signaler = procsignal.New()
	}

	return &Agent{
		cfg:      cfg,
		store:    store,
		logger:   o.logger,
		metrics:  o.metrics,
		hooks:    o.hooks,
		clk:      o.clk,
		signaler: o.signaler,
		identity: cfg.Identity,
		ordinal:  types.ParseOrdinal(cfg.Identity),
	}, nil
}

// Run polls the assignment set until the context is canceled.
//
// The first poll runs immediately. A failed poll is logged and retried after
// RetryInterval instead of waiting for the full poll interval.
//
// Parameters:
//   - ctx: Context controlling the loop lifetime
//
// Returns:
//   - error: ErrAlreadyRunning if the loop is already active, nil on context
//     cancellation
func (a *Agent) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return types.ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.logger.Info("agent started",
		"identity", a.identity,
		"ordinal", a.ordinal,
		"pollInterval", a.cfg.PollInterval,
	)

	for {
		delay := a.cfg.PollInterval

		if err := a.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			a.logger.Error("poll cycle failed", "error", err)
			delay = a.cfg.RetryInterval
		}

		timer := a.clk.Timer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			a.logger.Info("agent stopped", "identity", a.identity)

			return nil
		case <-timer.C:
		}
	}
}

// Poll executes a single poll cycle:
// fetch → fingerprint diff → extract → rewrite → signal.
//
// The fingerprint is recorded only after a successful rewrite. A cycle that
// skipped (missing blob, missing entry, incomplete window) leaves the
// fingerprint untouched, so the same set is re-examined next poll in case
// the condition was transient.
//
// Parameters:
//   - ctx: Context for blob store and signal calls
//
// Returns:
//   - error: Fetch, decode, rewrite, or signal error; nil on success or skip
func (a *Agent) Poll(ctx context.Context) error {
	defer a.state.Store(int32(types.AgentWatching))

	getCtx, cancel := context.WithTimeout(ctx, a.cfg.OperationTimeout)
	defer cancel()

	data, err := a.store.Get(getCtx, a.cfg.Keys.JSON)
	if err != nil {
		if errors.Is(err, types.ErrBlobNotFound) {
			// Nothing published yet; expected on a fresh deployment.
			a.logger.Debug("assignment set not published yet", "key", a.cfg.Keys.JSON)
			return nil
		}

		return fmt.Errorf("failed to fetch assignment set: %w", err)
	}

	fp := fingerprint.Sum(data)

	a.mu.Lock()
	unchanged := fp == a.fingerprint
	a.mu.Unlock()

	if unchanged {
		a.metrics.RecordPoll(false)
		return nil
	}

	a.metrics.RecordPoll(true)
	a.state.Store(int32(types.AgentExtracting))

	var set types.AssignmentSet
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to decode assignment set: %w", err)
	}

	assignment, ok := set.FindAssignment(a.identity, a.ordinal)
	if !ok {
		// Expected during scale-up until the coordinator observes this
		// replica. The fingerprint is not recorded, so the set is
		// re-examined every poll until an entry appears.
		a.logger.Warn("no assignment for this replica",
			"identity", a.identity,
			"ordinal", a.ordinal,
			"replicas", len(set.Replicas),
		)

		return nil
	}

	window, ok := assignment.Window()
	if !ok {
		a.logger.Warn("assignment carries no usable time range, skipping",
			"identity", a.identity,
			"shard", assignment.ShardIndex,
		)

		return nil
	}

	target := a.effectiveTarget(&set)

	a.state.Store(int32(types.AgentRewriting))

	if err := runtimecfg.ApplyTimeRange(target.ConfigPath, window.MinTime, window.MaxTime); err != nil {
		a.metrics.RecordRewrite(false)
		return fmt.Errorf("failed to rewrite %s: %w", target.ConfigPath, err)
	}

	a.metrics.RecordRewrite(true)

	a.mu.Lock()
	previous := a.current
	hadPrevious := a.hasApplied
	a.fingerprint = fp
	a.current = assignment
	a.hasApplied = true
	a.mu.Unlock()

	a.logger.Info("applied assignment",
		"identity", a.identity,
		"shard", assignment.ShardIndex,
		"minTime", window.MinTime,
		"maxTime", window.MaxTime,
		"configPath", target.ConfigPath,
	)

	if a.hooks != nil && a.hooks.OnAssignmentApplied != nil {
		if !hadPrevious {
			previous = types.ReplicaAssignment{}
		}
		if err := a.hooks.OnAssignmentApplied(ctx, previous, assignment); err != nil {
			a.logger.Warn("OnAssignmentApplied hook failed", "error", err)
		}
	}

	return a.deliverSignal(ctx, target)
}

// CurrentAssignment returns the last assignment the agent applied.
//
// ok is false until the first successful rewrite.
func (a *Agent) CurrentAssignment() (types.ReplicaAssignment, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.current, a.hasApplied
}

// State returns the agent's position within the current poll cycle.
func (a *Agent) State() types.AgentState {
	return types.AgentState(a.state.Load())
}

// effectiveTarget merges the published target runtime with the local one.
//
// The coordinator's published reload signal and process pattern win, so a
// fleet-wide target change rolls out without touching every replica's local
// config. The config path stays local: it names a file on this replica's
// filesystem, which only the replica's own deployment knows.
func (a *Agent) effectiveTarget(set *types.AssignmentSet) types.TargetRuntime {
	target := a.cfg.Target

	if set.Target.ProcessPattern != "" {
		target.ProcessPattern = set.Target.ProcessPattern
	}
	if set.Target.ReloadSignal != "" {
		target.ReloadSignal = set.Target.ReloadSignal
	}

	return target
}

// deliverSignal sends the reload signal to the target process.
//
// A missing target is not an error: the rewrite already landed, the target
// picks it up on next start. Exactly one signal is sent per applied change.
func (a *Agent) deliverSignal(ctx context.Context, target types.TargetRuntime) error {
	a.state.Store(int32(types.AgentSignaling))

	sig, err := signalFromName(target.ReloadSignal)
	if err != nil {
		a.metrics.RecordSignal(target.ReloadSignal, false)
		return err
	}

	if err := a.signaler.Signal(ctx, target.ProcessPattern, sig); err != nil {
		a.metrics.RecordSignal(target.ReloadSignal, false)

		if errors.Is(err, types.ErrProcessNotFound) {
			a.logger.Warn("target process not found, config applied without reload",
				"pattern", target.ProcessPattern,
				"signal", target.ReloadSignal,
			)

			return nil
		}

		return fmt.Errorf("failed to signal target process: %w", err)
	}

	a.metrics.RecordSignal(target.ReloadSignal, true)
	a.logger.Info("reload signal delivered",
		"pattern", target.ProcessPattern,
		"signal", target.ReloadSignal,
	)

	return nil
}

// signalFromName maps a configured signal name to the OS signal.
func signalFromName(name string) (syscall.Signal, error) {
	switch name {
	case "SIGHUP":
		return syscall.SIGHUP, nil
	case "SIGTERM":
		return syscall.SIGTERM, nil
	default:
		return 0, fmt.Errorf("%w: unsupported reload signal %q", types.ErrInvalidConfig, name)
	}
}

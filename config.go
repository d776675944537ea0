package timeshard

import (
	"fmt"
	"time"

	"github.com/arcten/timeshard/types"
)

// PublishKeys names the blob store keys the coordinator writes the assignment
// set to. Both keys hold the same set; YAML is the human-facing form, JSON is
// the machine-facing form the agents fingerprint and parse.
type PublishKeys struct {
	// YAML is the key for the YAML rendering of the assignment set.
	YAML string `yaml:"yaml"`

	// JSON is the key for the JSON rendering of the assignment set.
	JSON string `yaml:"json"`
}

// ============================================================================
// Timing Configuration Model
// ============================================================================
//
// Timeshard uses two independent loops with their own cadences:
//
//	Coordinator:  every Operator.UpdateInterval (default 5m)
//	              enumerate fleet → plan windows → publish set
//
//	Agent:        every PollInterval (default 30s)
//	              fetch set → fingerprint diff → rewrite + signal on change
//
// The agent polls much faster than the coordinator publishes, so a new set
// propagates to the fleet within one PollInterval of being written. Both
// loops fall back to RetryInterval after a failed cycle so a flapping blob
// store or inventory never produces a hot loop.
//
// Planning is anchored to the current UTC day, not the instant: two cycles on
// the same day compute identical windows, and the coordinator skips the write
// when the new set matches the published one. The set therefore changes at
// most once per day plus once per fleet change.
//
// ============================================================================

// Config is the configuration for the Coordinator and the Agent.
//
// Both sides share one Config type: the coordinator publishes the Operator,
// Sharding, and Target sections as part of the assignment set, and an agent
// uses the published sections in preference to its local copy, so only the
// coordinator's values need to be authoritative.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// Identity is this replica's stable name (e.g., the pod name). Required
	// for agents, unused by coordinators. The ordinal is derived from the
	// trailing numeric suffix.
	Identity string `yaml:"identity"`

	// Operator describes the coordinator's reconciliation scope and cadence.
	// It is echoed verbatim into every published assignment set.
	Operator types.OperatorInfo `yaml:"operator"`

	// Sharding is the time-sharding policy windows are planned from.
	Sharding types.ShardingPolicy `yaml:"sharding"`

	// Target describes the archive-server process agents manage: its runtime
	// config file, reload signal, and process pattern.
	Target types.TargetRuntime `yaml:"target"`

	// PollInterval is how often agents fetch the assignment set.
	// Recommended: 30 seconds.
	PollInterval time.Duration `yaml:"pollInterval"`

	// RetryInterval is how long a loop waits after a failed cycle before
	// trying again. Applies to both coordinator and agent loops.
	// Recommended: 1 minute.
	RetryInterval time.Duration `yaml:"retryInterval"`

	// OperationTimeout is the per-operation timeout for blob store and
	// inventory calls. Recommended: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// Keys are the blob store keys the assignment set is published under.
	Keys PublishKeys `yaml:"keys"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Operator: types.OperatorInfo{
			UpdateInterval: 5 * time.Minute,
			Namespace:      "default",
			GroupSelector:  "archive-store",
		},
		Sharding: types.ShardingPolicy{
			TotalShards:       3,
			ReplicasPerShard:  2,
			RetentionDays:     370,
			OverlapDays:       1,
			FutureBufferHours: 24,
		},
		Target: types.TargetRuntime{
			GRPCPort:       10901,
			HTTPPort:       10902,
			ReloadSignal:   "SIGHUP",
			ConfigPath:     "/etc/archive/runtime.yaml",
			ProcessPattern: "archive-store",
		},
		PollInterval:     30 * time.Second,
		RetryInterval:    time.Minute,
		OperationTimeout: 10 * time.Second,
		Keys: PublishKeys{
			YAML: "config.yaml",
			JSON: "config.json",
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Zero-valued policy fields are left alone: a zero TotalShards is a
// configuration error Validate reports, not a gap to paper over.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Operator.UpdateInterval == 0 {
		cfg.Operator.UpdateInterval = defaults.Operator.UpdateInterval
	}
	if cfg.Operator.Namespace == "" {
		cfg.Operator.Namespace = defaults.Operator.Namespace
	}
	if cfg.Operator.GroupSelector == "" {
		cfg.Operator.GroupSelector = defaults.Operator.GroupSelector
	}
	if cfg.Target.ReloadSignal == "" {
		cfg.Target.ReloadSignal = defaults.Target.ReloadSignal
	}
	if cfg.Target.ConfigPath == "" {
		cfg.Target.ConfigPath = defaults.Target.ConfigPath
	}
	if cfg.Target.ProcessPattern == "" {
		cfg.Target.ProcessPattern = defaults.Target.ProcessPattern
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = defaults.RetryInterval
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.Keys.YAML == "" {
		cfg.Keys.YAML = defaults.Keys.YAML
	}
	if cfg.Keys.JSON == "" {
		cfg.Keys.JSON = defaults.Keys.JSON
	}
}

// Validate checks configuration constraints and returns an error for invalid
// values.
//
// Hard Validation Rules:
//   - Sharding policy is internally consistent (see types.ShardingPolicy.Validate)
//   - Operator.UpdateInterval, PollInterval, RetryInterval, OperationTimeout > 0
//   - Target.ReloadSignal is SIGHUP or SIGTERM
//   - Keys.YAML and Keys.JSON are set and distinct
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig or ErrInvalidPolicy,
//     nil if valid
func (cfg *Config) Validate() error {
	if err := cfg.Sharding.Validate(); err != nil {
		return err
	}

	if cfg.Operator.UpdateInterval <= 0 {
		return fmt.Errorf("%w: Operator.UpdateInterval must be > 0, got %v",
			types.ErrInvalidConfig, cfg.Operator.UpdateInterval)
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("%w: PollInterval must be > 0, got %v",
			types.ErrInvalidConfig, cfg.PollInterval)
	}

	if cfg.RetryInterval <= 0 {
		return fmt.Errorf("%w: RetryInterval must be > 0, got %v",
			types.ErrInvalidConfig, cfg.RetryInterval)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v",
			types.ErrInvalidConfig, cfg.OperationTimeout)
	}

	if cfg.Target.ReloadSignal != "SIGHUP" && cfg.Target.ReloadSignal != "SIGTERM" {
		return fmt.Errorf("%w: Target.ReloadSignal must be SIGHUP or SIGTERM, got %q",
			types.ErrInvalidConfig, cfg.Target.ReloadSignal)
	}

	if cfg.Keys.YAML == "" || cfg.Keys.JSON == "" {
		return fmt.Errorf("%w: both publish keys must be set", types.ErrInvalidConfig)
	}

	if cfg.Keys.YAML == cfg.Keys.JSON {
		return fmt.Errorf("%w: publish keys must be distinct, both are %q",
			types.ErrInvalidConfig, cfg.Keys.YAML)
	}

	return nil
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10-60x faster than production defaults to enable rapid
// iteration without sacrificing coverage. Use DefaultConfig() for production
// deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := timeshard.TestConfig()
//	cfg.Identity = "archive-store-0"
//	agent, err := timeshard.NewAgent(&cfg, store)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Operator.UpdateInterval = 200 * time.Millisecond
	cfg.PollInterval = 50 * time.Millisecond
	cfg.RetryInterval = 100 * time.Millisecond
	cfg.OperationTimeout = 2 * time.Second

	return cfg
}

package timeshard

import (
	"github.com/benbjohnson/clock"

	"github.com/arcten/timeshard/types"
)

// Option configures a Coordinator or Agent with optional dependencies.
type Option func(*loopOptions)

// loopOptions holds optional Coordinator and Agent configuration.
type loopOptions struct {
	logger   types.Logger
	metrics  types.MetricsCollector
	hooks    *types.Hooks
	clk      clock.Clock
	signaler types.ProcessSignaler
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewCoordinator and NewAgent
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	coord, err := timeshard.NewCoordinator(&cfg, store, inv, timeshard.WithLogger(logger))
func WithLogger(logger types.Logger) Option {
	return func(o *loopOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewCoordinator and NewAgent
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *loopOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewCoordinator and NewAgent
//
// Example:
//
//	hooks := &timeshard.Hooks{
//	    OnPublished: func(ctx context.Context, set *timeshard.AssignmentSet) error {
//	        return notifyDashboard(set)
//	    },
//	}
//	coord, err := timeshard.NewCoordinator(&cfg, store, inv, timeshard.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *loopOptions) {
		o.hooks = hooks
	}
}

// WithClock sets the clock used for planning anchors and loop timers.
//
// Tests inject a mock clock to plan windows for a fixed date and to step
// loop timers deterministically. Production code never needs this option.
//
// Parameters:
//   - clk: Clock implementation (e.g., clock.NewMock())
//
// Returns:
//   - Option: Functional option for NewCoordinator and NewAgent
func WithClock(clk clock.Clock) Option {
	return func(o *loopOptions) {
		o.clk = clk
	}
}

// WithSignaler sets a custom process signaler.
//
// The default signaler matches the target pattern against local process
// command lines. Tests inject a fake to observe signal delivery without a
// real target process.
//
// Parameters:
//   - signaler: ProcessSignaler implementation
//
// Returns:
//   - Option: Functional option for NewAgent
func WithSignaler(signaler types.ProcessSignaler) Option {
	return func(o *loopOptions) {
		o.signaler = signaler
	}
}

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arcten/timeshard/types"
)

// presenceRecord is the JSON payload stored under each replica's presence key.
type presenceRecord struct {
	Identity string    `json:"identity"`
	Group    string    `json:"group"`
	LastSeen time.Time `json:"last_seen"`
}

// Announcer publishes periodic presence records to a NATS KV bucket.
//
// Each replica runs one Announcer alongside its agent. The coordinator's
// KV inventory enumerates the presence keys to discover the current fleet.
// The presence key is refreshed at a regular interval and carries the
// bucket's TTL, so a crashed replica drops out of the inventory after the
// TTL expires without any explicit deregistration.
type Announcer struct {
	kv       jetstream.KeyValue
	prefix   string
	identity string
	group    string
	interval time.Duration
	metrics  types.MetricsCollector

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker
}

// NewAnnouncer creates a new presence announcer.
//
// The KV bucket should be configured with a TTL of ~3x the announce
// interval so a crashed replica disappears after 3 missed announcements.
//
// Parameters:
//   - kv: JetStream KV bucket for presence storage
//   - prefix: Key prefix for presence keys (e.g., "replica")
//   - identity: Replica identity, typically the pod name
//   - group: Replica group label used for selector filtering
//   - interval: Announce interval
//
// Returns:
//   - *Announcer: New announcer instance
//
// Example:
//
//	kv, _ := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
//	    Bucket:  "timeshard-presence",
//	    TTL:     90 * time.Second, // 3x interval
//	    Storage: jetstream.FileStorage,
//	})
//	ann := inventory.NewAnnouncer(kv, "replica", "archive-store-2", "archive-store", 30*time.Second)
func NewAnnouncer(kv jetstream.KeyValue, prefix, identity, group string, interval time.Duration) *Announcer {
	return &Announcer{
		kv:       kv,
		prefix:   prefix,
		identity: identity,
		group:    group,
		interval: interval,
	}
}

// SetMetrics sets the metrics collector for announce events.
//
// Optional. If not set, metrics are not recorded.
func (a *Announcer) SetMetrics(metrics types.MetricsCollector) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.metrics = metrics
}

// Start begins publishing presence records in the background.
//
// Publishes the first record immediately, then at regular intervals.
// Continues until Stop() is called. A stopped announcer can be started
// again, which re-registers the replica after a planned absence.
//
// Parameters:
//   - ctx: Context for the initial publish
//
// Returns:
//   - error: ErrAlreadyRunning if already started, ErrIdentityRequired if
//     identity is empty, or the initial publish error
func (a *Announcer) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return types.ErrAlreadyRunning
	}

	if a.identity == "" {
		return types.ErrIdentityRequired
	}

	a.started = true
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	a.ticker = time.NewTicker(a.interval)

	// Publish first record immediately so the replica is visible before
	// the first tick.
	if err := a.publish(ctx); err != nil {
		a.started = false
		a.ticker.Stop()

		return fmt.Errorf("failed to publish initial presence record: %w", err)
	}

	go a.publishLoop()

	return nil
}

// Stop stops the announcer and deletes the presence record from KV.
//
// Blocks until the announcer goroutine exits. The presence record is
// deleted to immediately remove the replica from the inventory instead of
// waiting for TTL expiration.
//
// Returns:
//   - error: nil if not running, or cleanup error if the delete fails
func (a *Announcer) Stop() error {
	a.mu.Lock()

	if !a.started {
		a.mu.Unlock()
		return nil
	}

	a.ticker.Stop()
	close(a.stopCh)
	a.started = false

	a.mu.Unlock()

	<-a.doneCh

	// Use a background context with timeout since the replica is shutting down.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := a.kv.Delete(ctx, a.key()); err != nil {
		return fmt.Errorf("stopped but failed to delete presence record: %w", err)
	}

	return nil
}

// Identity returns the announcer's replica identity.
func (a *Announcer) Identity() string {
	return a.identity
}

// publishLoop is the background goroutine that refreshes the presence record.
func (a *Announcer) publishLoop() {
	defer close(a.doneCh)

	for {
		select {
		case <-a.stopCh:
			return
		case <-a.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.publish(ctx)
			cancel()

			a.mu.Lock()
			metrics := a.metrics
			a.mu.Unlock()

			if metrics != nil {
				metrics.RecordAnnounce(a.identity, err == nil)
			}
		}
	}
}

// publish writes the presence record to NATS KV.
func (a *Announcer) publish(ctx context.Context) error {
	record := presenceRecord{
		Identity: a.identity,
		Group:    a.group,
		LastSeen: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal presence record for %s: %w", a.identity, err)
	}

	if _, err := a.kv.Put(ctx, a.key(), data); err != nil {
		return fmt.Errorf("failed to publish presence record for %s: %w", a.identity, err)
	}

	return nil
}

// key generates the KV key for this replica's presence record.
func (a *Announcer) key() string {
	return fmt.Sprintf("%s.%s", a.prefix, a.identity)
}

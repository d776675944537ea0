package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arcten/timeshard/types"
)

// KV implements a replica inventory backed by a NATS JetStream KV bucket.
//
// The bucket is populated by Announcer instances running alongside each
// replica. Because presence keys carry the bucket TTL, the inventory only
// ever returns replicas that announced recently.
type KV struct {
	kv     jetstream.KeyValue
	prefix string
}

var _ types.Inventory = (*KV)(nil)

// NewKV creates a KV-backed replica inventory.
//
// Parameters:
//   - kv: JetStream KV bucket holding presence records
//   - prefix: Key prefix used by the announcers (e.g., "replica")
//
// Returns:
//   - *KV: Initialized inventory
func NewKV(kv jetstream.KeyValue, prefix string) *KV {
	return &KV{
		kv:     kv,
		prefix: prefix,
	}
}

// ListReplicas enumerates the replicas with live presence records.
//
// Only records whose group matches the selector are returned; an empty
// selector matches every group. The result is sorted by ordinal, then by
// identity for replicas sharing an ordinal, so repeated enumerations of an
// unchanged fleet produce identical assignment sets.
//
// Parameters:
//   - ctx: Context for KV operations
//   - selector: Group label to filter on, or "" for all groups
//
// Returns:
//   - []types.Replica: Live replicas, sorted by ordinal
//   - error: KV access error, or nil with an empty slice when no keys exist
func (k *KV) ListReplicas(ctx context.Context, selector string) ([]types.Replica, error) {
	keys, err := k.kv.Keys(ctx)
	if err != nil {
		if types.IsNoKeysFoundError(err) {
			return []types.Replica{}, nil
		}

		return nil, fmt.Errorf("failed to list presence keys: %w", err)
	}

	keyPrefix := k.prefix + "."
	replicas := make([]types.Replica, 0, len(keys))

	for _, key := range keys {
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}

		entry, err := k.kv.Get(ctx, key)
		if err != nil {
			// Key expired between Keys() and Get(); the replica is gone.
			if isKeyNotFound(err) {
				continue
			}

			return nil, fmt.Errorf("failed to read presence record %s: %w", key, err)
		}

		var record presenceRecord
		if err := json.Unmarshal(entry.Value(), &record); err != nil {
			return nil, fmt.Errorf("failed to decode presence record %s: %w", key, err)
		}

		if selector != "" && record.Group != selector {
			continue
		}

		identity := record.Identity
		if identity == "" {
			identity = strings.TrimPrefix(key, keyPrefix)
		}

		replicas = append(replicas, types.Replica{
			Identity: identity,
			Ordinal:  types.ParseOrdinal(identity),
		})
	}

	sort.Slice(replicas, func(i, j int) bool {
		if replicas[i].Ordinal != replicas[j].Ordinal {
			return replicas[i].Ordinal < replicas[j].Ordinal
		}

		return replicas[i].Identity < replicas[j].Identity
	})

	return replicas, nil
}

func isKeyNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound)
}

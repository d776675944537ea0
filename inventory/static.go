package inventory

import (
	"context"
	"sync"

	"github.com/arcten/timeshard/types"
)

// Static implements a replica inventory with a fixed list of replicas.
type Static struct {
	mu       sync.RWMutex
	replicas []types.Replica
}

var _ types.Inventory = (*Static)(nil)

// NewStatic creates a new static replica inventory.
//
// The inventory returns a fixed list of replicas that never changes until
// Update is called. Useful for testing and deployments where the replica
// count is configured rather than discovered.
//
// Parameters:
//   - replicas: Fixed list of replicas
//
// Returns:
//   - *Static: Initialized static inventory
//
// Example:
//
//	inv := inventory.NewStatic([]types.Replica{
//	    {Identity: "archive-store-0", Ordinal: 0},
//	    {Identity: "archive-store-1", Ordinal: 1},
//	})
//	coord, err := timeshard.NewCoordinator(&cfg, blobStore, inv)
//	if err != nil { /* handle */ }
func NewStatic(replicas []types.Replica) *Static {
	return &Static{
		replicas: replicas,
	}
}

// ListReplicas returns the static list of replicas.
//
// The selector is ignored; a static inventory represents exactly one group.
//
// Returns:
//   - []types.Replica: The fixed list of replicas
//   - error: Always nil (never fails)
func (s *Static) ListReplicas(_ context.Context, _ string) ([]types.Replica, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Replica, len(s.replicas))
	copy(result, s.replicas)

	return result, nil
}

// Update replaces the replica list.
//
// This allows the static inventory to simulate scale-up and scale-down,
// which is useful for testing fleet-change scenarios.
//
// Parameters:
//   - replicas: New list of replicas
func (s *Static) Update(replicas []types.Replica) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replicas = make([]types.Replica, len(replicas))
	copy(s.replicas, replicas)
}

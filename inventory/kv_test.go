package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcten/timeshard/inventory"
	tstest "github.com/arcten/timeshard/testing"
	"github.com/arcten/timeshard/types"
)

func TestKV_EmptyBucket(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)
	kv := tstest.CreateKV(t, nc, "presence-empty", 0)

	inv := inventory.NewKV(kv, "replica")

	replicas, err := inv.ListReplicas(t.Context(), "")
	require.NoError(t, err)
	require.Empty(t, replicas)
}

func TestKV_AnnounceAndList(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)
	kv := tstest.CreateKV(t, nc, "presence-list", 0)

	// Announce out of ordinal order to verify sorting.
	for _, identity := range []string{"archive-store-2", "archive-store-0", "archive-store-1"} {
		ann := inventory.NewAnnouncer(kv, "replica", identity, "archive-store", time.Minute)
		require.NoError(t, ann.Start(t.Context()))

		t.Cleanup(func() { _ = ann.Stop() })
	}

	inv := inventory.NewKV(kv, "replica")

	replicas, err := inv.ListReplicas(t.Context(), "archive-store")
	require.NoError(t, err)
	require.Equal(t, []types.Replica{
		{Identity: "archive-store-0", Ordinal: 0},
		{Identity: "archive-store-1", Ordinal: 1},
		{Identity: "archive-store-2", Ordinal: 2},
	}, replicas)
}

func TestKV_GroupSelector(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)
	kv := tstest.CreateKV(t, nc, "presence-selector", 0)

	storeAnn := inventory.NewAnnouncer(kv, "replica", "archive-store-0", "archive-store", time.Minute)
	require.NoError(t, storeAnn.Start(t.Context()))
	t.Cleanup(func() { _ = storeAnn.Stop() })

	queryAnn := inventory.NewAnnouncer(kv, "replica", "archive-query-0", "archive-query", time.Minute)
	require.NoError(t, queryAnn.Start(t.Context()))
	t.Cleanup(func() { _ = queryAnn.Stop() })

	inv := inventory.NewKV(kv, "replica")

	stores, err := inv.ListReplicas(t.Context(), "archive-store")
	require.NoError(t, err)
	require.Len(t, stores, 1)
	require.Equal(t, "archive-store-0", stores[0].Identity)

	all, err := inv.ListReplicas(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestKV_StopRemovesPresence(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)
	kv := tstest.CreateKV(t, nc, "presence-stop", 0)

	ann := inventory.NewAnnouncer(kv, "replica", "archive-store-0", "archive-store", time.Minute)
	require.NoError(t, ann.Start(t.Context()))

	inv := inventory.NewKV(kv, "replica")

	replicas, err := inv.ListReplicas(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, replicas, 1)

	require.NoError(t, ann.Stop())

	replicas, err = inv.ListReplicas(t.Context(), "")
	require.NoError(t, err)
	require.Empty(t, replicas)
}

func TestAnnouncer_Restart(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)
	kv := tstest.CreateKV(t, nc, "presence-restart", 0)

	ann := inventory.NewAnnouncer(kv, "replica", "archive-store-0", "archive-store", time.Minute)
	inv := inventory.NewKV(kv, "replica")

	require.NoError(t, ann.Start(t.Context()))
	require.NoError(t, ann.Stop())

	// A stopped announcer can re-register the replica.
	require.NoError(t, ann.Start(t.Context()))
	t.Cleanup(func() { _ = ann.Stop() })

	replicas, err := inv.ListReplicas(t.Context(), "archive-store")
	require.NoError(t, err)
	require.Len(t, replicas, 1)
	require.Equal(t, "archive-store-0", replicas[0].Identity)

	// And stopping again removes it cleanly, without touching the goroutine
	// from the first run.
	require.NoError(t, ann.Stop())

	replicas, err = inv.ListReplicas(t.Context(), "")
	require.NoError(t, err)
	require.Empty(t, replicas)
}

func TestAnnouncer_StartErrors(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)
	kv := tstest.CreateKV(t, nc, "presence-errors", 0)

	t.Run("empty identity", func(t *testing.T) {
		ann := inventory.NewAnnouncer(kv, "replica", "", "archive-store", time.Minute)
		require.ErrorIs(t, ann.Start(t.Context()), types.ErrIdentityRequired)
	})

	t.Run("double start", func(t *testing.T) {
		ann := inventory.NewAnnouncer(kv, "replica", "archive-store-0", "archive-store", time.Minute)
		require.NoError(t, ann.Start(t.Context()))
		t.Cleanup(func() { _ = ann.Stop() })

		require.ErrorIs(t, ann.Start(t.Context()), types.ErrAlreadyRunning)
	})
}

package kvutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	tstest "github.com/arcten/timeshard/testing"
)

func TestEnsureBucket(t *testing.T) {
	_, nc := tstest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("creates then reopens the same bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "ensure-roundtrip", History: 1}

		kv1, err := EnsureBucket(ctx, js, cfg, 3)
		require.NoError(t, err)

		_, err = kv1.Put(ctx, "k", []byte("v"))
		require.NoError(t, err)

		kv2, err := EnsureBucket(ctx, js, cfg, 3)
		require.NoError(t, err)

		entry, err := kv2.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, []byte("v"), entry.Value())
	})

	t.Run("concurrent ensure on one bucket succeeds for all callers", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "ensure-concurrent", History: 1}

		const workers = 5
		var wg sync.WaitGroup
		errCh := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := EnsureBucket(ctx, js, cfg, 5)
				errCh <- err
			}()
		}

		wg.Wait()
		close(errCh)
		for err := range errCh {
			require.NoError(t, err)
		}
	})
}

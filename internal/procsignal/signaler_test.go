package procsignal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcten/timeshard/types"
)

func TestSignaler_Signal(t *testing.T) {
	t.Run("reports process not found for an unmatched pattern", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := New().Signal(ctx, "no-such-process-7c1f2a9d", syscall.SIGHUP)

		require.ErrorIs(t, err, types.ErrProcessNotFound)
	})
}

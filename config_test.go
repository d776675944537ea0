package timeshard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arcten/timeshard/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 5*time.Minute, cfg.Operator.UpdateInterval)
	require.Equal(t, "archive-store", cfg.Operator.GroupSelector)
	require.Equal(t, uint(3), cfg.Sharding.TotalShards)
	require.Equal(t, uint(2), cfg.Sharding.ReplicasPerShard)
	require.Equal(t, uint(370), cfg.Sharding.RetentionDays)
	require.Equal(t, uint(1), cfg.Sharding.OverlapDays)
	require.Equal(t, uint(24), cfg.Sharding.FutureBufferHours)
	require.Equal(t, "SIGHUP", cfg.Target.ReloadSignal)
	require.Equal(t, 30*time.Second, cfg.PollInterval)
	require.Equal(t, time.Minute, cfg.RetryInterval)
	require.Equal(t, 10*time.Second, cfg.OperationTimeout)
	require.Equal(t, "config.yaml", cfg.Keys.YAML)
	require.Equal(t, "config.json", cfg.Keys.JSON)

	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, 5*time.Minute, cfg.Operator.UpdateInterval)
		require.Equal(t, "archive-store", cfg.Operator.GroupSelector)
		require.Equal(t, "SIGHUP", cfg.Target.ReloadSignal)
		require.Equal(t, 30*time.Second, cfg.PollInterval)
		require.Equal(t, "config.yaml", cfg.Keys.YAML)
		require.Equal(t, "config.json", cfg.Keys.JSON)

		// Policy fields are deliberately not defaulted.
		require.Equal(t, uint(0), cfg.Sharding.TotalShards)
	})

	t.Run("preserves explicit values", func(t *testing.T) {
		cfg := Config{
			PollInterval: 5 * time.Second,
			Keys:         PublishKeys{YAML: "set.yaml", JSON: "set.json"},
		}
		SetDefaults(&cfg)

		require.Equal(t, 5*time.Second, cfg.PollInterval)
		require.Equal(t, "set.yaml", cfg.Keys.YAML)
		require.Equal(t, "set.json", cfg.Keys.JSON)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("invalid policy", func(t *testing.T) {
		cfg := valid()
		cfg.Sharding.TotalShards = 0
		require.ErrorIs(t, cfg.Validate(), types.ErrInvalidPolicy)
	})

	t.Run("zero update interval", func(t *testing.T) {
		cfg := valid()
		cfg.Operator.UpdateInterval = 0
		require.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)
	})

	t.Run("zero poll interval", func(t *testing.T) {
		cfg := valid()
		cfg.PollInterval = 0
		require.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)
	})

	t.Run("unsupported reload signal", func(t *testing.T) {
		cfg := valid()
		cfg.Target.ReloadSignal = "SIGKILL"
		err := cfg.Validate()
		require.ErrorIs(t, err, types.ErrInvalidConfig)
		require.Contains(t, err.Error(), "SIGKILL")
	})

	t.Run("SIGTERM is accepted", func(t *testing.T) {
		cfg := valid()
		cfg.Target.ReloadSignal = "SIGTERM"
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing publish key", func(t *testing.T) {
		cfg := valid()
		cfg.Keys.JSON = ""
		require.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)
	})

	t.Run("colliding publish keys", func(t *testing.T) {
		cfg := valid()
		cfg.Keys.JSON = cfg.Keys.YAML
		require.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)
	})
}

func TestConfigYAMLRoundtrip(t *testing.T) {
	raw := `
identity: archive-store-2
operator:
  update_interval: 2m
  namespace: monitoring
  group_selector: archive-store
sharding:
  total_shards: 4
  replicas_per_shard: 2
  data_retention_days: 365
  shard_overlap_days: 2
  future_buffer_hours: 12
pollInterval: 15s
keys:
  yaml: assignments.yaml
  json: assignments.json
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	require.Equal(t, "archive-store-2", cfg.Identity)
	require.Equal(t, 2*time.Minute, cfg.Operator.UpdateInterval)
	require.Equal(t, "monitoring", cfg.Operator.Namespace)
	require.Equal(t, uint(4), cfg.Sharding.TotalShards)
	require.Equal(t, uint(365), cfg.Sharding.RetentionDays)
	require.Equal(t, 15*time.Second, cfg.PollInterval)
	require.Equal(t, "assignments.yaml", cfg.Keys.YAML)

	SetDefaults(&cfg)
	require.NoError(t, cfg.Validate())
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.Less(t, cfg.PollInterval, time.Second)
	require.Less(t, cfg.Operator.UpdateInterval, time.Second)
	require.NoError(t, cfg.Validate())
}

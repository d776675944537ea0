package runtimecfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	testMin = time.Date(2023, 9, 9, 0, 0, 0, 0, time.UTC)
	testMax = time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
)

func TestApplyTimeRange(t *testing.T) {
	t.Run("creates the file with the assigned window when missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "runtime.yaml")

		require.NoError(t, ApplyTimeRange(path, testMin, testMax))

		var got map[string]string
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, yaml.Unmarshal(data, &got))
		require.Equal(t, "2023-09-09T00:00:00Z", got["min_time"])
		require.Equal(t, "2024-01-11T00:00:00Z", got["max_time"])
	})

	t.Run("updates only the two time fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "runtime.yaml")
		original := `# managed by provisioning
type: STORE
grpc_address: 0.0.0.0:10901
objstore:
  bucket: archive
  endpoint: minio.local:9000
min_time: '2020-01-01T00:00:00Z'
max_time: '2020-02-01T00:00:00Z'
index_cache:
  max_size: 512MB
`
		require.NoError(t, os.WriteFile(path, []byte(original), 0o640))

		require.NoError(t, ApplyTimeRange(path, testMin, testMax))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var got struct {
			Type        string `yaml:"type"`
			GRPCAddress string `yaml:"grpc_address"`
			Objstore    struct {
				Bucket   string `yaml:"bucket"`
				Endpoint string `yaml:"endpoint"`
			} `yaml:"objstore"`
			MinTime    string `yaml:"min_time"`
			MaxTime    string `yaml:"max_time"`
			IndexCache struct {
				MaxSize string `yaml:"max_size"`
			} `yaml:"index_cache"`
		}
		require.NoError(t, yaml.Unmarshal(data, &got))
		require.Equal(t, "STORE", got.Type)
		require.Equal(t, "0.0.0.0:10901", got.GRPCAddress)
		require.Equal(t, "archive", got.Objstore.Bucket)
		require.Equal(t, "minio.local:9000", got.Objstore.Endpoint)
		require.Equal(t, "512MB", got.IndexCache.MaxSize)
		require.Equal(t, "2023-09-09T00:00:00Z", got.MinTime)
		require.Equal(t, "2024-01-11T00:00:00Z", got.MaxTime)

		// Comments and unrelated text survive the node-level rewrite.
		require.Contains(t, string(data), "# managed by provisioning")

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("appends the time fields when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "runtime.yaml")
		require.NoError(t, os.WriteFile(path, []byte("type: STORE\n"), 0o644))

		require.NoError(t, ApplyTimeRange(path, testMin, testMax))

		var got map[string]any
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, yaml.Unmarshal(data, &got))
		require.Equal(t, "STORE", got["type"])
		require.Equal(t, "2023-09-09T00:00:00Z", got["min_time"])
	})

	t.Run("idempotent reapply leaves identical bytes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "runtime.yaml")
		require.NoError(t, os.WriteFile(path, []byte("type: STORE\ndata_dir: /data\n"), 0o644))

		require.NoError(t, ApplyTimeRange(path, testMin, testMax))
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, ApplyTimeRange(path, testMin, testMax))
		second, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("rejects a non-mapping config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "runtime.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))

		require.Error(t, ApplyTimeRange(path, testMin, testMax))
	})
}

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: order-service
  port: 8081
storage:
  driver: mysql
services:
  inventory-service: http://inventory:8082
resilience:
  inventoryReserve:
    timeout: 2s
    retry:
      maxAttempts: 1
  inventoryRead:
    timeout: 1500ms
    retry:
      maxAttempts: 3
      initialBackoff: 50ms
order:
  reaper:
    enabled: true
    interval: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.App.Port)
	assert.Equal(t, "mysql", cfg.Storage.Driver)
	assert.Equal(t, "http://inventory:8082", cfg.Services["inventory-service"])
	assert.Equal(t, 1, cfg.Resilience["inventoryReserve"].Retry.MaxAttempts)
	assert.Equal(t, 1500*time.Millisecond, cfg.Resilience["inventoryRead"].Timeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Resilience["inventoryRead"].Retry.InitialBackoff)
	assert.True(t, cfg.Order.Reaper.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Order.Reaper.Interval)

	// defaults
	assert.Equal(t, 15*time.Minute, cfg.Inventory.ReservationTTL)
	assert.Equal(t, 30, cfg.Order.DefaultExpiryMinutes)
	assert.Equal(t, 100, cfg.Order.Reaper.BatchSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("CATALOG_BASE_URL", "http://catalog:8083")
	t.Setenv("ZK_SERVERS", "zk1:2181, zk2:2181")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "http://catalog:8083", cfg.Services["catalog-service"])
	assert.Equal(t, []string{"zk1:2181", "zk2:2181"}, cfg.Infra.Zookeeper.Servers)
	assert.True(t, cfg.Infra.Zookeeper.Enabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	_, err := Load(writeConfig(t, sampleConfig))
	assert.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.LookupTimeout)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, DefaultServiceURL, cfg.OrderServiceURL())
}

func TestLoadServiceURL(t *testing.T) {
	t.Setenv("SERVICE_URL", "http://test-service/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://test-service/", cfg.OrderServiceURL())
}

func TestLoadBlankServiceURLFallsBack(t *testing.T) {
	t.Setenv("SERVICE_URL", "   ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.OrderServiceURL())
}

func TestLoadBrokersCSV(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("LOOKUP_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadWorkersFloor(t *testing.T) {
	t.Setenv("ASSISTANT_WORKERS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.AssistantWorkers)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 2, cfg.Search.ReadRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.Search.RetryBackoff)
	assert.Equal(t, float64(25), cfg.Map.DefaultRadiusKm)
	assert.Equal(t, float64(200), cfg.Map.MaxRadiusKm)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Search: &SearchConfig{ReadRetries: 5, RetryBackoff: time.Second},
		Map:    &MapConfig{DefaultRadiusKm: 10, MaxRadiusKm: 50},
	}
	cfg.Postgres.SSLMode = "require"
	cfg.ApplyDefaults()

	assert.Equal(t, 5, cfg.Search.ReadRetries)
	assert.Equal(t, time.Second, cfg.Search.RetryBackoff)
	assert.Equal(t, float64(10), cfg.Map.DefaultRadiusKm)
	assert.Equal(t, "require", cfg.Postgres.SSLMode)
}

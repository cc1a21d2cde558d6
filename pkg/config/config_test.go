package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10*time.Minute, cfg.GPA.CacheTTL)
	assert.Equal(t, BatchStrategyAggregate, cfg.GPA.BatchStrategy)
	assert.False(t, cfg.GPA.CacheEnabled)
	assert.Zero(t, cfg.GPA.WarmWorkers)
	assert.True(t, cfg.Transcript.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("GPA_BATCH_STRATEGY", " SCAN ")
	v.Set("GPA_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("GPA_CACHE_ENABLED", true)
	v.Set("GPA_BATCH_WARM_WORKERS", 2)

	cfg := fromViper(v)

	assert.Equal(t, BatchStrategyScan, cfg.GPA.BatchStrategy)
	assert.Equal(t, 10*time.Minute, cfg.GPA.CacheTTL)
	assert.True(t, cfg.GPA.CacheEnabled)
	assert.Equal(t, 2, cfg.GPA.WarmWorkers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestUnknownBatchStrategyFallsBackToAggregate(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("GPA_BATCH_STRATEGY", "per-user")

	assert.Equal(t, BatchStrategyAggregate, fromViper(v).GPA.BatchStrategy)
}

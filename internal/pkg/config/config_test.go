package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	require.Equal(t, DefaultAPIBase, cfg.API.URL)
	require.True(t, cfg.UsingDefaultAPI())
	require.Equal(t, "http://localhost:5173", cfg.API.Origin)
	require.Equal(t, 15*time.Second, cfg.API.RequestTimeout)
	require.Equal(t, "file", cfg.Storage.Driver)
	require.NotEmpty(t, cfg.Storage.Dir)
	require.Equal(t, "Forest Plant Store", cfg.SiteTitle)
	require.Equal(t, "http://localhost:3000", cfg.Shell.ProxyTarget)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_URL":         "https://backend.example.com/api",
		"REQUEST_TIMEOUT": "3s",
		"STORAGE_DRIVER":  "redis",
		"REDIS_DB":        "2",
	}))
	require.NoError(t, err)

	require.False(t, cfg.UsingDefaultAPI())
	require.Equal(t, "https://backend.example.com/api", cfg.API.URL)
	require.Equal(t, 3*time.Second, cfg.API.RequestTimeout)
	require.Equal(t, "redis", cfg.Storage.Driver)
	require.Equal(t, 2, cfg.Redis.DB)
}

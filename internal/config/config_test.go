package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "JWT_SECRET", "CORS_ORIGINS", "CATALOG_BACKEND", "CART_BACKEND", "WISHLIST_BACKEND", "REDIS_HOST", "ELASTIC_URL", "SEARCH_DEFAULT_LIMIT", "SEARCH_MAX_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.CatalogBackend)
	assert.Equal(t, BackendMemory, cfg.CartBackend)
	assert.Equal(t, BackendMemory, cfg.WishlistBackend)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 20, cfg.SearchDefaultLimit)
	assert.Equal(t, 100, cfg.SearchMaxLimit)
	assert.False(t, cfg.UsesRedis())
	assert.False(t, cfg.UsesElastic())
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CATALOG_BACKEND", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/cedra")
	t.Setenv("CART_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("CART_RATE_LIMIT", "pas-un-nombre")

	cfg := FromEnv()
	assert.Equal(t, BackendPostgres, cfg.CatalogBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 20, cfg.CartRateLimit)
	assert.True(t, cfg.UsesRedis())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"mongo sans URI", func(c *Config) { c.CatalogBackend = BackendMongo }},
		{"scylla sans hôtes", func(c *Config) { c.CatalogBackend = BackendScylla }},
		{"catalogue inconnu", func(c *Config) { c.CatalogBackend = "sqlite" }},
		{"panier redis sans hôte", func(c *Config) { c.CartBackend = BackendRedis }},
		{"panier inconnu", func(c *Config) { c.CartBackend = BackendScylla }},
		{"wishlist scylla sans keyspace", func(c *Config) {
			c.WishlistBackend = BackendScylla
			c.Scylla.Hosts = []string{"127.0.0.1"}
		}},
		{"limites incohérentes", func(c *Config) { c.SearchMaxLimit = 5 }},
		{"secret de dev en release", func(c *Config) { c.GinMode = "release" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				GinMode:            "debug",
				JWTSecret:          devJWTSecret,
				CatalogBackend:     BackendMemory,
				CartBackend:        BackendMemory,
				WishlistBackend:    BackendMemory,
				SearchDefaultLimit: 20,
				SearchMaxLimit:     100,
			}
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

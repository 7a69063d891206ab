package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://shop.test, https://admin.shop.test,")
	t.Setenv("HYDRATE_TIMEOUT", "750ms")
	t.Setenv("ACTIVITY_LIMIT", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "storefront", cfg.MongoDB)
	assert.Equal(t, []string{"https://shop.test", "https://admin.shop.test"}, cfg.CORSOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.HydrateTimeout)
	assert.Equal(t, 1000, cfg.ActivityLimit)
	assert.False(t, cfg.AdminEnabled())
}

func TestAdminEnabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	assert.True(t, LoadConfig().AdminEnabled())
}

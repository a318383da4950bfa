package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skyhopper/flight-compare/backend/internal/config"
)

// clearEnv blanks every variable Load reads so tests do not depend on the
// developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "CORS_ORIGINS", "CONTACT_NUMBER", "MESSAGING_HOST",
		"BOOKING_EMAIL", "APP_URL", "CONTACT_RELAY_URL", "SHOPIFY_STORE_DOMAIN",
		"SHOPIFY_STOREFRONT_TOKEN", "SHOPIFY_API_VERSION", "CATALOG_COLLECTION_HANDLE",
		"RECAPTCHA_SITE_KEY", "RECAPTCHA_SECRET_KEY", "DATABASE_URL", "REDIS_URL",
		"AIRPORT_CACHE_TTL", "SESSION_TTL", "UPSTREAM_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default
// and that every optional feature is off.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "wa.me", cfg.MessagingHost)
	require.Equal(t, "2024-01", cfg.ShopifyAPIVersion)
	require.Equal(t, "popular", cfg.CollectionHandle)
	require.Equal(t, time.Hour, cfg.AirportCacheTTL)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Empty(t, cfg.ContactRelayURL)

	require.False(t, cfg.CatalogEnabled())
	require.False(t, cfg.EnquiryEnabled())
	require.False(t, cfg.ContactEnabled())
	require.False(t, cfg.CaptchaVerificationEnabled())
	require.False(t, cfg.ContactLogEnabled())
	require.False(t, cfg.SharedCacheEnabled())
}

// TestLoad_overrides verifies that values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("SHOPIFY_STORE_DOMAIN", "shop.example.com")
	t.Setenv("SHOPIFY_STOREFRONT_TOKEN", "token")
	t.Setenv("CONTACT_NUMBER", "+971501234567")
	t.Setenv("RECAPTCHA_SITE_KEY", "site")
	t.Setenv("CONTACT_RELAY_URL", "https://relay.example.com/send")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/mydb")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("AIRPORT_CACHE_TTL", "15m")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "https://relay.example.com/send", cfg.ContactRelayURL)
	require.Equal(t, 15*time.Minute, cfg.AirportCacheTTL)
	require.Equal(t, 2*time.Second, cfg.UpstreamTimeout)

	require.True(t, cfg.CatalogEnabled())
	require.True(t, cfg.EnquiryEnabled())
	require.True(t, cfg.ContactEnabled())
	require.True(t, cfg.ContactLogEnabled())
	require.True(t, cfg.SharedCacheEnabled())
}

// TestLoad_relayDerivedFromAppURL verifies the relay default follows APP_URL.
func TestLoad_relayDerivedFromAppURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_URL", "https://flights.example.com/")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "https://flights.example.com/api/contact.php", cfg.ContactRelayURL)
}

// TestLoad_invalidDurations verifies that an error is returned for malformed
// durations, and that the message names every bad variable.
func TestLoad_invalidDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "thirty minutes")
	t.Setenv("UPSTREAM_TIMEOUT", "-1s")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "SESSION_TTL")
	require.ErrorContains(t, err, "UPSTREAM_TIMEOUT")
}

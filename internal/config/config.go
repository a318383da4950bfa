// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables. Every variable is
// optional; a missing value disables the feature that depends on it.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// ContactNumber is the messaging number used for booking deep links.
	ContactNumber string
	// MessagingHost is the deep-link host. Defaults to "wa.me".
	MessagingHost string
	BookingEmail  string
	AppURL        string

	// ContactRelayURL is where contact submissions are posted. Defaults to
	// "${APP_URL}/api/contact.php" when APP_URL is set.
	ContactRelayURL string

	ShopifyDomain     string
	ShopifyToken      string
	ShopifyAPIVersion string
	// CollectionHandle names the collection holding popular destinations
	// and the airport metafields. Defaults to "popular".
	CollectionHandle string

	RecaptchaSiteKey   string
	RecaptchaSecretKey string

	// DatabaseURL is the Postgres connection string for the contact log.
	DatabaseURL string
	// RedisURL enables the shared airport cache.
	RedisURL string

	AirportCacheTTL time.Duration
	SessionTTL      time.Duration
	UpstreamTimeout time.Duration
}

// Load reads a .env file when present, then configuration from environment
// variables. Variables already set in the environment win over .env.
// Returns an error naming every malformed duration.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: read .env: %w", err)
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ContactNumber:      os.Getenv("CONTACT_NUMBER"),
		MessagingHost:      getEnv("MESSAGING_HOST", "wa.me"),
		BookingEmail:       os.Getenv("BOOKING_EMAIL"),
		AppURL:             os.Getenv("APP_URL"),
		ShopifyDomain:      os.Getenv("SHOPIFY_STORE_DOMAIN"),
		ShopifyToken:       os.Getenv("SHOPIFY_STOREFRONT_TOKEN"),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-01"),
		CollectionHandle:   getEnv("CATALOG_COLLECTION_HANDLE", "popular"),
		RecaptchaSiteKey:   os.Getenv("RECAPTCHA_SITE_KEY"),
		RecaptchaSecretKey: os.Getenv("RECAPTCHA_SECRET_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
	}
	cfg.ContactRelayURL = getEnv("CONTACT_RELAY_URL", defaultRelayURL(cfg.AppURL))

	var invalid []string
	for _, d := range []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"AIRPORT_CACHE_TTL", time.Hour, &cfg.AirportCacheTTL},
		{"SESSION_TTL", 30 * time.Minute, &cfg.SessionTTL},
		{"UPSTREAM_TIMEOUT", 10 * time.Second, &cfg.UpstreamTimeout},
	} {
		v, err := getDuration(d.key, d.fallback)
		if err != nil {
			invalid = append(invalid, err.Error())
			continue
		}
		*d.dst = v
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, "; "))
	}

	return cfg, nil
}

// CatalogEnabled reports whether the catalog credentials are set.
func (c Config) CatalogEnabled() bool {
	return c.ShopifyDomain != "" && c.ShopifyToken != ""
}

// EnquiryEnabled reports whether booking deep links can be built.
func (c Config) EnquiryEnabled() bool {
	return c.ContactNumber != ""
}

// ContactEnabled reports whether the contact form can be submitted.
func (c Config) ContactEnabled() bool {
	return c.RecaptchaSiteKey != "" && c.ContactRelayURL != ""
}

// CaptchaVerificationEnabled reports whether captcha tokens are verified
// server side before relaying.
func (c Config) CaptchaVerificationEnabled() bool {
	return c.RecaptchaSecretKey != ""
}

// ContactLogEnabled reports whether submissions are recorded in Postgres.
func (c Config) ContactLogEnabled() bool {
	return c.DatabaseURL != ""
}

// SharedCacheEnabled reports whether airport data is shared through Redis.
func (c Config) SharedCacheEnabled() bool {
	return c.RedisURL != ""
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses key as a Go duration ("90s", "1h"). Empty means fallback.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func defaultRelayURL(appURL string) string {
	if appURL == "" {
		return ""
	}
	return strings.TrimRight(appURL, "/") + "/api/contact.php"
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"searchrelay/internal/providers"
	"searchrelay/internal/validation"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	SiteTitle   string
	CORSOrigins string // Comma-separated allowed origins, "*" for any
	TLSCertFile string
	TLSKeyFile  string

	// Database
	DatabaseURL string // postgres://..., sqlite://path or file:path

	// Logging
	LogLevel string

	// Metrics
	MetricsTopQueries int // How many queries the history collector exports

	// Outbound requests
	UserAgent string

	// Background provider probes; zero disables them
	ProviderCheckInterval time.Duration

	Wikipedia WikipediaConfig
	Trends    TrendsConfig
}

// WikipediaConfig configures the encyclopedia provider and result enricher.
type WikipediaConfig struct {
	Enabled        bool
	APIURL         string
	ArticleURL     string
	SuggestLimit   int
	SearchLimit    int
	ThumbnailSize  int
	SuggestTimeout time.Duration
	SearchTimeout  time.Duration
}

// TrendsConfig configures the trends provider.
type TrendsConfig struct {
	Enabled     bool
	URL         string
	Language    string
	Timezone    int
	Limit       int
	Timeout     time.Duration
	DialTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:               getEnv("ENV", "development"),
		ServerAddr:        getEnv("SERVER_ADDR", ":3000"),
		SiteTitle:         getEnv("SITE_TITLE", "Search"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		TLSCertFile:       os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:        os.Getenv("TLS_KEY_FILE"),
		DatabaseURL:       getEnv("DATABASE_URL", "sqlite://search.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		MetricsTopQueries: getEnvInt("METRICS_TOP_QUERIES", 50),
		UserAgent:         getEnv("USER_AGENT", providers.DefaultUserAgent),

		ProviderCheckInterval: getEnvDuration("PROVIDER_CHECK_INTERVAL", 5*time.Minute),

		Wikipedia: WikipediaConfig{
			Enabled:        getEnvBool("ENABLE_WIKIPEDIA", true),
			APIURL:         getEnv("WIKIPEDIA_API_URL", providers.DefaultWikipediaAPIURL),
			ArticleURL:     getEnv("WIKIPEDIA_ARTICLE_URL", providers.DefaultWikipediaArticleURL),
			SuggestLimit:   providers.DefaultLimit,
			SearchLimit:    providers.DefaultLimit,
			ThumbnailSize:  providers.DefaultThumbnailSize,
			SuggestTimeout: providers.DefaultSuggestTimeout,
			SearchTimeout:  providers.DefaultSearchTimeout,
		},

		Trends: TrendsConfig{
			Enabled:     getEnvBool("ENABLE_TRENDS", true),
			URL:         getEnv("TRENDS_URL", providers.DefaultTrendsURL),
			Language:    getEnv("TRENDS_LANGUAGE", providers.DefaultTrendsLanguage),
			Timezone:    providers.DefaultTrendsTimezone,
			Limit:       providers.DefaultLimit,
			Timeout:     providers.DefaultTrendsTimeout,
			DialTimeout: providers.DefaultTrendsDialTimeout,
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring invalid integer env var", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("ignoring invalid duration env var", "key", key, "value", value)
		return fallback
	}
	return d
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("ignoring invalid boolean env var", "key", key, "value", value)
		return fallback
	}
	return b
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// TLSEnabled reports whether both a certificate and key were configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// AllowedOrigins splits CORSOrigins into a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Validate checks provider endpoints of enabled providers.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.Wikipedia.Enabled {
		for name, u := range map[string]string{
			"wikipedia api url":     c.Wikipedia.APIURL,
			"wikipedia article url": c.Wikipedia.ArticleURL,
		} {
			if ok, msg := validation.ValidateURL(u); !ok {
				return fmt.Errorf("invalid %s %q: %s", name, u, msg)
			}
		}
	}
	if c.Trends.Enabled {
		if ok, msg := validation.ValidateURL(c.Trends.URL); !ok {
			return fmt.Errorf("invalid trends url %q: %s", c.Trends.URL, msg)
		}
	}
	return nil
}

// WikipediaOptions maps the config onto the provider client options.
func (c *Config) WikipediaOptions() providers.WikipediaOptions {
	return providers.WikipediaOptions{
		APIURL:         c.Wikipedia.APIURL,
		UserAgent:      c.UserAgent,
		SuggestLimit:   c.Wikipedia.SuggestLimit,
		SearchLimit:    c.Wikipedia.SearchLimit,
		ThumbnailSize:  c.Wikipedia.ThumbnailSize,
		SuggestTimeout: c.Wikipedia.SuggestTimeout,
		SearchTimeout:  c.Wikipedia.SearchTimeout,
	}
}

// TrendsOptions maps the config onto the provider client options.
func (c *Config) TrendsOptions() providers.TrendsOptions {
	return providers.TrendsOptions{
		BaseURL:     c.Trends.URL,
		Language:    c.Trends.Language,
		Timezone:    c.Trends.Timezone,
		UserAgent:   c.UserAgent,
		Limit:       c.Trends.Limit,
		Timeout:     c.Trends.Timeout,
		DialTimeout: c.Trends.DialTimeout,
	}
}

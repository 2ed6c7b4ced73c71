// Package config provides configuration management for the navigation service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Content source names accepted by CONTENT_SOURCE.
const (
	SourceNotion  = "notion"
	SourceMongoDB = "mongodb"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Content  ContentConfig
	Notion   NotionConfig
	Database DatabaseConfig
	Site     SiteConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port       string
	RateLimit  int
	RateWindow time.Duration
	// RefreshRateLimit limits refreshes per API key or client IP per RateWindow.
	RefreshRateLimit int
	// RefreshAPIKeys, when set, are required on refresh requests.
	RefreshAPIKeys map[string]bool
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	// ShutdownTimeout bounds draining requests and flushing the refresh journal.
	ShutdownTimeout time.Duration
}

// ContentConfig holds content cache configuration.
type ContentConfig struct {
	// Source selects the content source: "notion" or "mongodb".
	Source          string
	UpstreamTimeout time.Duration
	// LocalTagFilter answers tag misses from the cached unfiltered collection.
	LocalTagFilter bool
}

// NotionConfig holds the Notion database settings.
type NotionConfig struct {
	APIKey     string
	DatabaseID string
	BaseURL    string
	Version    string
	PageSize   int
	MaxPages   int
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI             string
	DatabaseName    string
	PagesCollection string
	JournalTTL      time.Duration
	// Enabled turns on the refresh journal. MongoDB is always used when it is the content source.
	Enabled bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// SiteConfig holds the site name and Open Graph metadata served to the
// front-end. Each value falls back to its NEXT_PUBLIC_ variable.
type SiteConfig struct {
	Title         string
	OGImage       string
	OGDescription string
	OGURL         string
	OGLogo        string
	OGKeywords    string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "8080"),
			RateLimit:        getEnvInt("RATE_LIMIT", 100),
			RateWindow:       getEnvDuration("RATE_WINDOW", time.Minute),
			RefreshRateLimit: getEnvInt("REFRESH_RATE_LIMIT", 10),
			RefreshAPIKeys:   parseAPIKeys(os.Getenv("REFRESH_API_KEYS")),
			CORSOrigins:      parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:      getEnv("SWAGGER_USER", ""),
			SwaggerPass:      getEnv("SWAGGER_PASS", ""),
			ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Content: ContentConfig{
			Source:          strings.ToLower(getEnv("CONTENT_SOURCE", SourceNotion)),
			UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			LocalTagFilter:  getEnvBool("CONTENT_LOCAL_TAG_FILTER", true),
		},
		Notion: NotionConfig{
			APIKey:     getEnv("NOTION_API_KEY", ""),
			DatabaseID: getEnv("DATABASE_ID", ""),
			BaseURL:    getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
			Version:    getEnv("NOTION_VERSION", "2022-06-28"),
			PageSize:   getEnvInt("NOTION_PAGE_SIZE", 100),
			MaxPages:   getEnvInt("NOTION_MAX_PAGES", 10),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "nav_service"),
			PagesCollection:                getEnv("MONGODB_PAGES_COLLECTION", "pages"),
			JournalTTL:                     getEnvDuration("MONGODB_JOURNAL_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Site: SiteConfig{
			Title:         getEnvCompat("NAV_NAME"),
			OGImage:       getEnvCompat("OG_IMG"),
			OGDescription: getEnvCompat("OG_DESC"),
			OGURL:         getEnvCompat("OG_URL"),
			OGLogo:        getEnvCompat("OG_LOGO"),
			OGKeywords:    getEnvCompat("OG_KEYWORDS"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// UsesMongoDB reports whether a MongoDB connection is needed.
func (c Config) UsesMongoDB() bool {
	return c.Database.Enabled || c.Content.Source == SourceMongoDB
}

// Validate reports configuration that would keep the service from serving content.
func (c Config) Validate() error {
	var errs []error

	switch c.Content.Source {
	case SourceNotion:
		if c.Notion.APIKey == "" {
			errs = append(errs, errors.New("NOTION_API_KEY is required for the notion source"))
		}
		if c.Notion.DatabaseID == "" {
			errs = append(errs, errors.New("DATABASE_ID is required for the notion source"))
		}
	case SourceMongoDB:
		if c.Database.URI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongodb source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CONTENT_SOURCE %q", c.Content.Source))
	}

	if c.Content.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvCompat reads key, then the NEXT_PUBLIC_ variable of the same name.
func getEnvCompat(key string) string {
	return getEnv(key, os.Getenv("NEXT_PUBLIC_"+key))
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Local development front-end
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

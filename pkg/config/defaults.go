// Package config provides centralized default values for the Groove menu server
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvDuration reads environment variable as duration with fallback
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		// Try as integer seconds
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Business identity — a single deployment serves one business
	BusinessID string

	// Document store
	TursoDatabase string
	TursoToken    string
	SQLitePath    string
	StateDir      string
	MediaDir      string

	// Admin auth
	JWTSecret         string
	AdminPasswordHash string

	// TTL Configuration per data category
	DefaultCacheTTL  time.Duration
	BusinessInfoTTL  time.Duration
	MenusTTL         time.Duration
	CategoriesTTL    time.Duration
	ItemsTTL         time.Duration
	AnnouncementsTTL time.Duration
	SchemaVariantTTL time.Duration

	// Cache bounds
	MaxCacheItems int

	// Cleanup / sweep intervals
	CacheCleanupInterval    time.Duration
	ListenerSweepInterval   time.Duration
	ListenerMaxIdleTime     time.Duration
	CleanupVerboseReporting bool

	// Derived listings
	AnnouncementsLimit int
	LowStockThreshold  int
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	BusinessID = getEnvString("BUSINESS_ID", "default")

	// Document store — Turso first, SQLite fallback
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken = getEnvString("TURSO_AUTH_TOKEN", "")
	SQLitePath = getEnvString("SQLITE_PATH", "data/groove.db")
	StateDir = getEnvString("STATE_DIR", "data/state")
	MediaDir = getEnvString("MEDIA_DIR", "data/media")

	// Admin auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")

	// TTL Configuration — business info churns least, announcements most
	DefaultCacheTTL = time.Duration(getEnvInt("DEFAULT_CACHE_TTL_MINUTES", 15)) * time.Minute
	BusinessInfoTTL = time.Duration(getEnvInt("BUSINESS_INFO_TTL_MINUTES", 30)) * time.Minute
	MenusTTL = time.Duration(getEnvInt("MENUS_TTL_MINUTES", 15)) * time.Minute
	CategoriesTTL = time.Duration(getEnvInt("CATEGORIES_TTL_MINUTES", 20)) * time.Minute
	ItemsTTL = time.Duration(getEnvInt("ITEMS_TTL_MINUTES", 10)) * time.Minute
	AnnouncementsTTL = time.Duration(getEnvInt("ANNOUNCEMENTS_TTL_MINUTES", 5)) * time.Minute
	SchemaVariantTTL = time.Duration(getEnvInt("SCHEMA_VARIANT_TTL_MINUTES", 30)) * time.Minute

	MaxCacheItems = getEnvInt("MAX_CACHE_ITEMS", 100)

	// Cleanup Intervals
	CacheCleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 5)) * time.Minute
	ListenerSweepInterval = time.Duration(getEnvInt("LISTENER_SWEEP_INTERVAL_MINUTES", 2)) * time.Minute
	ListenerMaxIdleTime = time.Duration(getEnvInt("LISTENER_MAX_IDLE_MINUTES", 5)) * time.Minute
	CleanupVerboseReporting = getEnvString("CLEANUP_VERBOSE", "false") == "true"

	AnnouncementsLimit = getEnvInt("ANNOUNCEMENTS_LIMIT", 10)
	LowStockThreshold = getEnvInt("LOW_STOCK_THRESHOLD", 5)
}

// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/farmctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Parameter ranges — global safe-range table for sensor readings
// --------------------------------------------------------------------------

// Range is the inclusive safe band for one sensor parameter.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RangeTable maps parameter name to its safe range.
type RangeTable map[string]Range

// DefaultRanges is the baseline safe-range table. Every entry can be
// overridden with RANGE_<PARAM>_MIN / RANGE_<PARAM>_MAX.
func DefaultRanges() RangeTable {
	return RangeTable{
		"nitrogen":     {Min: 20, Max: 120},
		"phosphorus":   {Min: 10, Max: 60},
		"potassium":    {Min: 80, Max: 220},
		"ph":           {Min: 5.5, Max: 7.5},
		"temperature":  {Min: 15, Max: 35},
		"moisture":     {Min: 30, Max: 70},
		"conductivity": {Min: 0.8, Max: 2.5},
	}
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	PlantsTable         = "plants"
	PlantEventsTable    = "plant_events"
	AlertRecordsTable   = "alert_records"
	UsersTable          = "users"
	SensorReadingsTable = "sensor_readings"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Lifecycle scheduler
	AdvanceAt        string // "HH:MM" local wall-clock time
	Timezone         string // IANA zone name, e.g. "Africa/Nairobi"
	LifecycleWorkers int

	// Alerting
	Ranges          RangeTable
	AlertRoles      []string // recipient role allow-list
	SendTimeout     time.Duration
	AlertRetention  time.Duration // age after which alert records are purged
	PurgeInterval   time.Duration // zero disables the purge ticker
	ListenerEnabled bool

	// SMS gateway
	SMSBaseURL    string
	SMSAccountID  string
	SMSAuthToken  string
	SMSFromNumber string
}

// Load reads configuration from environment variables with sensible defaults.
// Malformed values that would silently change alerting or scheduling behavior
// (bad range overrides, unparseable trigger time, unknown timezone) are load
// errors, not defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("FARMSIGHT_DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or FARMSIGHT_DATABASE_URL must be set")
	}

	ranges, err := loadRanges()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		AdvanceAt:        envOr("LIFECYCLE_ADVANCE_AT", "06:00"),
		Timezone:         envOr("LIFECYCLE_TIMEZONE", "UTC"),
		LifecycleWorkers: envInt("LIFECYCLE_WORKERS", 4),

		Ranges:          ranges,
		AlertRoles:      envList("ALERT_ROLES", []string{"owner", "manager", "agronomist"}),
		SendTimeout:     time.Duration(envInt("SMS_SEND_TIMEOUT_SECONDS", 10)) * time.Second,
		AlertRetention:  time.Duration(envInt("ALERT_RETENTION_HOURS", 720)) * time.Hour,
		PurgeInterval:   time.Duration(envInt("ALERT_PURGE_INTERVAL_MINUTES", 360)) * time.Minute,
		ListenerEnabled: envBool("SENSOR_LISTENER_ENABLED", true),

		SMSBaseURL:    envOr("SMS_BASE_URL", ""),
		SMSAccountID:  envOr("SMS_ACCOUNT_ID", ""),
		SMSAuthToken:  envOr("SMS_AUTH_TOKEN", ""),
		SMSFromNumber: envOr("SMS_FROM_NUMBER", ""),
	}

	if _, _, err := ParseClock(cfg.AdvanceAt); err != nil {
		return nil, fmt.Errorf("LIFECYCLE_ADVANCE_AT: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("LIFECYCLE_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour, minute, nil
}

// loadRanges applies RANGE_<PARAM>_MIN/MAX overrides on top of the defaults.
// A malformed or inverted override is an error so that misconfiguration
// surfaces at startup instead of as "no violations".
func loadRanges() (RangeTable, error) {
	ranges := DefaultRanges()
	for param, r := range ranges {
		key := strings.ToUpper(param)
		if v := os.Getenv("RANGE_" + key + "_MIN"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("RANGE_%s_MIN %q: %w", key, v, err)
			}
			r.Min = f
		}
		if v := os.Getenv("RANGE_" + key + "_MAX"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("RANGE_%s_MAX %q: %w", key, v, err)
			}
			r.Max = f
		}
		if r.Min > r.Max {
			return nil, fmt.Errorf("range for %s inverted: min %.2f > max %.2f", param, r.Min, r.Max)
		}
		ranges[param] = r
	}
	return ranges, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

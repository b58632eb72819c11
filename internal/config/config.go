package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Database DatabaseConfig
	Match    MatchConfig
	Ledger   LedgerConfig
	Web      WebConfig
	Log      LogConfig
	Statuses StatusConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type MatchConfig struct {
	Tolerance float64 // Maximum Euclidean distance for two vectors to count as the same person (default 0.5)
	Dim       int     // Feature vector dimensionality (default 128)
}

type LedgerConfig struct {
	DebounceWindow time.Duration // Repeated scans with the same status inside this window skip the write (default 5m)
	DailyRetention int           // Days of live attendance rows kept by the nightly sweep (default 7)
}

type WebConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level  string // debug, info, warn, error (default info)
	Format string // json or console (default json)
}

// StatusConfig holds the attendance status labels the system assigns itself.
// Statuses on manual corrections stay free-form; these are only the defaults
// for scan check-ins and the sentinel for students with no record yet.
type StatusConfig struct {
	Present     string `yaml:"present"`
	NotRecorded string `yaml:"not_recorded"`
	UnknownTime string `yaml:"unknown_time"`
}

type defaultsFile struct {
	Statuses StatusConfig `yaml:"statuses"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envDuration reads an environment variable and parses it as a duration.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Match: MatchConfig{
			Tolerance: envFloat("MATCH_TOLERANCE", 0.5),
			Dim:       envInt("VECTOR_DIM", 128),
		},
		Ledger: LedgerConfig{
			DebounceWindow: envDuration("SCAN_DEBOUNCE", 5*time.Minute),
			DailyRetention: envInt("DAILY_RETENTION_DAYS", 7),
		},
		Web: WebConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Statuses: defaults.Statuses,
	}
}

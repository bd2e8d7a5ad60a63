package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Meter    MeterConfig
	Geocode  GeocodeConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MeterConfig holds the trip meter engine thresholds.
type MeterConfig struct {
	// HomeRegion is the user's configured home fare region; its
	// schedule supplies the flat region surcharge.
	HomeRegion string
	// AccuracyCeilingMeters rejects fixes with worse horizontal
	// accuracy.
	AccuracyCeilingMeters float64
	// MaxPlausibleSpeedMps rejects GPS jumps implying faster travel.
	MaxPlausibleSpeedMps float64
	// LowSpeedThresholdMps separates moving from waiting.
	LowSpeedThresholdMps float64
	// IdleThreshold is consecutive idle time before the user is
	// prompted.
	IdleThreshold time.Duration
	// PromptTimeout is how long an unanswered prompt lives before the
	// trip auto-stops.
	PromptTimeout time.Duration
	// TickInterval drives fare and watchdog time between fixes.
	TickInterval time.Duration
	// FixStaleAfter is how old the last fix may be before speed counts
	// as unavailable.
	FixStaleAfter time.Duration
}

// GeocodeConfig holds reverse-geocoding configuration. An empty BaseURL
// disables geocoding; trips then run under the home region's schedule.
type GeocodeConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hogumeter"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Meter: MeterConfig{
			HomeRegion:            getEnv("METER_HOME_REGION", "seoul"),
			AccuracyCeilingMeters: getFloatEnv("METER_ACCURACY_CEILING_M", 50),
			MaxPlausibleSpeedMps:  getFloatEnv("METER_MAX_PLAUSIBLE_SPEED_MPS", 55),
			LowSpeedThresholdMps:  getFloatEnv("METER_LOW_SPEED_MPS", 4.17), // ~15 km/h
			IdleThreshold:         getDurationEnv("METER_IDLE_THRESHOLD", 60*time.Second),
			PromptTimeout:         getDurationEnv("METER_PROMPT_TIMEOUT", 30*time.Second),
			TickInterval:          getDurationEnv("METER_TICK_INTERVAL", time.Second),
			FixStaleAfter:         getDurationEnv("METER_FIX_STALE_AFTER", 5*time.Second),
		},
		Geocode: GeocodeConfig{
			BaseURL: getEnv("GEOCODE_BASE_URL", ""),
			Timeout: getDurationEnv("GEOCODE_TIMEOUT", 2*time.Second),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "hogumeter-backend"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

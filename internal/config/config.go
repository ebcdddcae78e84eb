// internal/config/config.go
// Configuration management using environment variables and optional config files

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"courtmatch/internal/models"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Engine      models.Config
	External    ExternalConfig
	Features    FeatureFlags
}

// ExternalConfig contains settings for external collaborators
type ExternalConfig struct {
	FrontendURL string
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig contains all database connection settings
type DatabaseConfig struct {
	MySQL   MySQLConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
}

// MySQLConfig contains MySQL-specific settings
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MongoDBConfig contains MongoDB-specific settings
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig contains Redis-specific settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// FeatureFlags allows toggling features without code changes
type FeatureFlags struct {
	EnableWebSocket bool
	MaintenanceMode bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				DSN:             getEnvOrDefault("MYSQL_DSN", ""),
				MaxOpenConns:    getIntOrDefault("MYSQL_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getIntOrDefault("MYSQL_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getDurationOrDefault("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
			},
			MongoDB: MongoDBConfig{
				URI:      getEnvOrDefault("MONGO_URI", ""),
				Database: getEnvOrDefault("MONGO_DATABASE", "courtmatch"),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		Engine: loadEngineConfig(),
		External: ExternalConfig{
			FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		},
		Features: FeatureFlags{
			EnableWebSocket: getBoolOrDefault("ENABLE_WEBSOCKET", true),
			MaintenanceMode: getBoolOrDefault("MAINTENANCE_MODE", false),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Database.MySQL.DSN == "" {
		return fmt.Errorf("MYSQL_DSN is required")
	}
	if c.Database.MongoDB.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	return nil
}

// loadEngineConfig builds the matchmaking engine's tunables, starting
// from models.DefaultConfig() and letting individual env vars override
// them. No other package reads Config.Engine: a session created over
// HTTP starts from models.DefaultConfig() plus its request's own config
// patch, so these env vars do not change session behaviour.
func loadEngineConfig() models.Config {
	cfg := models.DefaultConfig()
	cfg.BaseRating = getFloatOrDefault("ENGINE_BASE_RATING", cfg.BaseRating)
	cfg.MinRating = getFloatOrDefault("ENGINE_MIN_RATING", cfg.MinRating)
	cfg.MaxRating = getFloatOrDefault("ENGINE_MAX_RATING", cfg.MaxRating)
	cfg.ProvisionalGamesThreshold = getIntOrDefault("ENGINE_PROVISIONAL_GAMES_THRESHOLD", cfg.ProvisionalGamesThreshold)
	cfg.RankingRangePercentage = getFloatOrDefault("ENGINE_RANKING_RANGE_PERCENTAGE", cfg.RankingRangePercentage)
	cfg.MaxConsecutiveWaits = getIntOrDefault("ENGINE_MAX_CONSECUTIVE_WAITS", cfg.MaxConsecutiveWaits)
	cfg.MinCompletedMatchesForWaiting = getIntOrDefault("ENGINE_MIN_COMPLETED_MATCHES_FOR_WAITING", cfg.MinCompletedMatchesForWaiting)
	cfg.HardCapEnabled = getBoolOrDefault("ENGINE_HARD_CAP_ENABLED", cfg.HardCapEnabled)
	cfg.RoundRobinQueueLength = getIntOrDefault("ENGINE_ROUND_ROBIN_QUEUE_LENGTH", cfg.RoundRobinQueueLength)
	cfg.RandomizeInitialOrder = getBoolOrDefault("ENGINE_RANDOMIZE_INITIAL_ORDER", cfg.RandomizeInitialOrder)
	return cfg
}

// Helper functions to read environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"

	"episbc/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig `validate:"required"`
	Server    ServerConfig   `validate:"required"`
	Study     StudyConfig    `validate:"required"`
	Paths     PathConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL          string `validate:"required"`
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string `validate:"required"`
	RequestTimeout time.Duration
}

// StudyConfig holds the default study knobs; a YAML study spec or CLI flags
// override these per run
type StudyConfig struct {
	Seed       uint64
	Scenarios  int
	Draws      int
	Population float64
	Horizon    int
	Epsilon    float64
	NumBins    int
	GridPoints int
	Confidence float64
	Workers    int
}

// PathConfig holds file system paths
type PathConfig struct {
	ReportDir string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	// Load database configuration
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	// Load server configuration
	serverConfig := loadServerConfig()
	config.Server = *serverConfig

	// Load study defaults
	studyConfig := loadStudyConfig()
	config.Study = *studyConfig

	// Load path configuration
	pathConfig := loadPathConfig()
	config.Paths = *pathConfig

	// Load profiling configuration
	profilingConfig := loadProfilingConfig()
	config.Profiling = *profilingConfig

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:          url,
		MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnLifetime: getEnvDurationOrDefault("DB_CONN_LIFETIME", 30*time.Minute),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
	}
}

func loadStudyConfig() *StudyConfig {
	return &StudyConfig{
		Seed:       getEnvUintOrDefault("STUDY_SEED", 1),
		Scenarios:  getEnvIntOrDefault("STUDY_SCENARIOS", 1000),
		Draws:      getEnvIntOrDefault("STUDY_DRAWS", 99),
		Population: getEnvFloatOrDefault("STUDY_POPULATION", 83e6),
		Horizon:    getEnvIntOrDefault("STUDY_HORIZON", 14),
		Epsilon:    getEnvFloatOrDefault("STUDY_EPSILON", 1e-5),
		NumBins:    getEnvIntOrDefault("STUDY_NUM_BINS", 10),
		GridPoints: getEnvIntOrDefault("STUDY_GRID_POINTS", 101),
		Confidence: getEnvFloatOrDefault("STUDY_CONFIDENCE", 0.95),
		Workers:    getEnvIntOrDefault("STUDY_WORKERS", 8),
	}
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		ReportDir: getEnvOrDefault("REPORT_DIR", "."),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Study.Scenarios < 1 {
		return errors.ConfigInvalid("study scenarios must be >= 1")
	}
	if config.Study.Draws < 1 {
		return errors.ConfigInvalid("study draws must be >= 1")
	}
	if config.Study.Population <= 0 {
		return errors.ConfigInvalid("study population must be positive")
	}
	if config.Study.Horizon < 1 {
		return errors.ConfigInvalid("study horizon must be >= 1")
	}
	if config.Study.Confidence <= 0 || config.Study.Confidence >= 1 {
		return errors.ConfigInvalid("study confidence must be in (0, 1)")
	}
	if config.Study.Workers < 1 {
		return errors.ConfigInvalid("study workers must be >= 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

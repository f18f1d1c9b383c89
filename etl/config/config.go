package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds connection settings for the warehouse database.
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// RedisConfig holds connection settings for the cache backend.
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// CSVFiles maps each source entity to the CSV file it is extracted from.
type CSVFiles struct {
	Customers string `json:"customers"`
	Products  string `json:"products"`
	Orders    string `json:"orders"`
	Payments  string `json:"payments"`
}

// DateRange bounds the generated date dimension, inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ETLConfig is the full configuration for a pipeline run.
type ETLConfig struct {
	Warehouse DatabaseConfig `json:"warehouse"`
	Redis     RedisConfig    `json:"redis"`
	Files     CSVFiles       `json:"files"`
	DateRange DateRange      `json:"date_range"`

	// Retry policy for transient operations (connect, dimension loads).
	MaxRetries    int           `json:"max_retries"`
	RetryDelay    time.Duration `json:"retry_delay"`
	BackoffFactor float64       `json:"backoff_factor"`

	// Wall-clock bound for a whole run.
	RunTimeout time.Duration `json:"run_timeout"`

	EnableCaching bool          `json:"enable_caching"`
	CacheTTL      time.Duration `json:"cache_ttl"`

	// Interval between scheduled runs.
	RunInterval time.Duration `json:"run_interval"`

	// Expected warehouse row counts checked by the quality gate. When empty,
	// the pipeline derives expectations from the transformed row counts.
	ExpectedRowCounts map[string]int64 `json:"expected_row_counts"`

	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// Default configuration values.
var (
	DefaultWarehouseConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "root",
		DBName:   "ecommerce_dw",
	}

	DefaultRedisConfig = RedisConfig{
		Host: "localhost",
		Port: 6379,
		DB:   0,
	}

	DefaultETLConfig = ETLConfig{
		Warehouse: DefaultWarehouseConfig,
		Redis:     DefaultRedisConfig,
		Files: CSVFiles{
			Customers: "data/customers.csv",
			Products:  "data/products.csv",
			Orders:    "data/orders.csv",
			Payments:  "data/payments.csv",
		},
		DateRange: DateRange{
			Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		MaxRetries:            3,
		RetryDelay:            5 * time.Second,
		BackoffFactor:         2.0,
		RunTimeout:            30 * time.Minute,
		EnableCaching:         true,
		CacheTTL:              time.Hour,
		RunInterval:           24 * time.Hour,
		EnableDetailedLogging: true,
	}
)

// GetConfig returns the ETL configuration, applying environment overrides on
// top of the compiled defaults.
func GetConfig() ETLConfig {
	cfg := DefaultETLConfig

	cfg.Warehouse.Host = envString("DB_HOST", cfg.Warehouse.Host)
	cfg.Warehouse.Port = envInt("DB_PORT", cfg.Warehouse.Port)
	cfg.Warehouse.User = envString("DB_USER", cfg.Warehouse.User)
	cfg.Warehouse.Password = envString("DB_PASSWORD", cfg.Warehouse.Password)
	cfg.Warehouse.DBName = envString("DB_NAME", cfg.Warehouse.DBName)

	cfg.Redis.Host = envString("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = envInt("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = envString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envInt("REDIS_DB", cfg.Redis.DB)

	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.Files = CSVFiles{
			Customers: dir + "/customers.csv",
			Products:  dir + "/products.csv",
			Orders:    dir + "/orders.csv",
			Payments:  dir + "/payments.csv",
		}
	}

	return cfg
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

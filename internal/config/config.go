package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	DBMigrate      bool   `toml:"db_migrate"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// http
	AllowedOrigins       []string `toml:"allowed_origins"`
	APIRateLimitPerMin   int      `toml:"api_rate_limit_per_min"`
	UsersCacheSizeMB     int      `toml:"users_cache_size_mb"`
	UsersCacheTTLSeconds int      `toml:"users_cache_ttl_seconds"`

	// workout events
	KafkaEnabled bool     `toml:"kafka_enabled"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`

	// feature set export
	ExportEnabled     bool   `toml:"export_enabled"`
	ExportS3Bucket    string `toml:"export_s3_bucket"`
	ExportS3Region    string `toml:"export_s3_region"`
	ExportS3Endpoint  string `toml:"export_s3_endpoint"`
	ExportS3PathStyle bool   `toml:"export_s3_path_style"`
	ExportS3KeyPrefix string `toml:"export_s3_key_prefix"`

	// jobs
	StoreGaugesSchedule string `toml:"store_gauges_schedule"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.APIRateLimitPerMin == 0 {
		c.APIRateLimitPerMin = 600
	}
	if c.UsersCacheSizeMB == 0 {
		c.UsersCacheSizeMB = 10
	}
	if c.UsersCacheTTLSeconds == 0 {
		c.UsersCacheTTLSeconds = 300
	}
	if c.KafkaTopic == "" {
		c.KafkaTopic = "workout-events"
	}
	if c.ExportS3KeyPrefix == "" {
		c.ExportS3KeyPrefix = "features"
	}
	if c.StoreGaugesSchedule == "" {
		c.StoreGaugesSchedule = "@every 5m"
	}
}

// Load reads the TOML config file and returns the section for the given env.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return tomlConfig.Get(env)
}

// Parse is like Load, but reads the TOML from a string.
func Parse(env, data string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.Decode(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return tomlConfig.Get(env)
}

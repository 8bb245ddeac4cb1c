// Package config defines the configuration structures for the workspace
// engine.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"

	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the matter /
// event / invoice record store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters for the portfolio cache.
type RedisConfig struct {
	// Enabled selects the distributed cache backend; when false the engine
	// runs with the in-process cache instead.
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig holds cache policy independent of the backing store.
type CacheConfig struct {
	// PortfolioTTL bounds the lifetime of a cached portfolio aggregate.
	PortfolioTTL time.Duration `mapstructure:"portfolio_ttl"`
}

// KafkaConfig holds the usage-event producer parameters.  Publishing is
// best-effort telemetry; when Brokers is empty the producer is disabled.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	TopicPrefix  string        `mapstructure:"topic_prefix"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MinIOConfig holds object-storage parameters for pre-fill uploads.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// AssistantConfig holds the optional AI provider parameters.  An empty
// APIKey means the assistant is not configured: briefing falls back to the
// template narrative and AI summary fails closed.
type AssistantConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// DocIntelConfig holds the document-intelligence extractor parameters.
type DocIntelConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PreFillConfig bounds the pre-fill upload validation.
type PreFillConfig struct {
	// MaxFileBytes is the per-file size ceiling for uploaded documents.
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

// AuthConfig holds the authentication gate parameters.
type AuthConfig struct {
	// JWTSecret is the HMAC secret for Bearer token validation.
	JWTSecret string `mapstructure:"jwt_secret"`
	// APIKeys maps static API keys to the identity they authenticate as.
	APIKeys map[string]string `mapstructure:"api_keys"`
}

// Config is the root configuration for the engine.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	DocIntel  DocIntelConfig  `mapstructure:"docintel"`
	PreFill   PreFillConfig   `mapstructure:"prefill"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       logging.Config  `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.  Any
// error is fatal; callers must refuse to start the engine.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled")
	}

	if c.Cache.PortfolioTTL <= 0 {
		return fmt.Errorf("config: cache.portfolio_ttl must be positive, got %s", c.Cache.PortfolioTTL)
	}

	if c.Auth.JWTSecret == "" && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("config: auth requires a jwt_secret or at least one api key")
	}

	if c.PreFill.MaxFileBytes < 1 {
		return fmt.Errorf("config: prefill.max_file_bytes must be positive, got %d", c.PreFill.MaxFileBytes)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultConfigPath is where Load looks for the YAML file.
const DefaultConfigPath = "config.yaml"

// Config holds all configuration for the rosterAI server.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Insights   RemoteConfig     `yaml:"insights" env-prefix:"INSIGHTS_"`
	News       RemoteConfig     `yaml:"news" env-prefix:"NEWS_"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	CORS       CORSConfig       `yaml:"cors"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// StorageConfig selects the key-value backend that holds the roster.
type StorageConfig struct {
	// Backend is one of memory, file, redis, postgres.
	Backend   string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	Namespace string `yaml:"namespace" env:"STORAGE_NAMESPACE" env-default:"rosterai"`
	FilePath  string `yaml:"file_path" env:"STORAGE_FILE_PATH" env-default:"data/roster.json"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"rosterai"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"rosterai"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"5"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// RemoteConfig describes one of the remote recommendation services.
// An empty BaseURL disables the service; callers then report it unavailable.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL" env-default:""`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"15s"`
}

// Enabled returns true if a base URL is configured.
func (c *RemoteConfig) Enabled() bool {
	return c.BaseURL != ""
}

// NormalizerConfig points at optional extra header aliases.
type NormalizerConfig struct {
	AliasesFile string `yaml:"aliases_file" env:"NORMALIZER_ALIASES_FILE" env-default:""`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOriginsStr string   `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedOrigins    []string `yaml:"-"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// When the file does not exist, configuration comes from the environment alone.
func Load(version string) (*Config, error) {
	return LoadFrom(DefaultConfigPath, version)
}

// LoadFrom is Load with an explicit YAML path.
func LoadFrom(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	cfg.parseComplexFields()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) parseComplexFields() {
	c.CORS.AllowedOrigins = splitList(c.CORS.AllowedOriginsStr)
	c.Insights.BaseURL = strings.TrimRight(strings.TrimSpace(c.Insights.BaseURL), "/")
	c.News.BaseURL = strings.TrimRight(strings.TrimSpace(c.News.BaseURL), "/")
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "redis", "postgres":
	case "file":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	for name, remote := range map[string]RemoteConfig{"insights": c.Insights, "news": c.News} {
		if remote.Timeout <= 0 {
			return fmt.Errorf("%s.timeout must be positive", name)
		}
		if !remote.Enabled() {
			continue
		}
		u, err := url.Parse(remote.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s.base_url must be an absolute http(s) URL", name)
		}
	}

	return nil
}

// ListenAddr returns bind_addr:port.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// ConnectionString returns a PostgreSQL connection URL.
func (c *DatabaseConfig) ConnectionString() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", ResolveHostForDocker(c.Host), c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Addr returns the Redis host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", ResolveHostForDocker(c.Host), c.Port)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

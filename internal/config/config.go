package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
)

// Config represents the complete server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Brapi    BrapiConfig    `yaml:"brapi"`
	Engine   EngineConfig   `yaml:"engine"`
}

// ServerConfig contains HTTP server parameters
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	APIToken string `yaml:"api_token"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
// ConnStr, when set, wins over the individual fields.
type DatabaseConfig struct {
	ConnStr  string `yaml:"conn_str"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// BrapiConfig contains market data provider parameters
type BrapiConfig struct {
	BaseURL         string `yaml:"base_url"`
	Token           string `yaml:"token"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// EngineConfig contains valuation engine parameters
type EngineConfig struct {
	// OversellPolicy is one of "clamp", "reject", "allow_short"
	OversellPolicy string `yaml:"oversell_policy"`
}

// Default returns the configuration used for local development
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8080",
			APIToken: "dev-token",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "carteira",
			SSLMode:  "disable",
		},
		Brapi: BrapiConfig{
			BaseURL:         "https://brapi.dev/api",
			TimeoutSeconds:  5,
			CacheTTLSeconds: 60,
		},
		Engine: EngineConfig{
			OversellPolicy: "clamp",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (when path
// is non-empty), then environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if _, err := cfg.Engine.Policy(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Server.Addr, "HTTP_ADDR")
	setFromEnv(&c.Server.APIToken, "API_TOKEN")
	setFromEnv(&c.Database.ConnStr, "DB_CONN_STR")
	setFromEnv(&c.Database.Host, "DB_HOST")
	setFromEnv(&c.Database.Port, "DB_PORT")
	setFromEnv(&c.Database.User, "DB_USER")
	setFromEnv(&c.Database.Password, "DB_PASSWORD")
	setFromEnv(&c.Database.Name, "DB_NAME")
	setFromEnv(&c.Brapi.BaseURL, "BRAPI_BASE_URL")
	setFromEnv(&c.Brapi.Token, "BRAPI_TOKEN")
	setFromEnv(&c.Engine.OversellPolicy, "OVERSELL_POLICY")
}

func setFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// ConnString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnString() string {
	if d.ConnStr != "" {
		return d.ConnStr
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Timeout returns the quote request timeout as a duration
func (b *BrapiConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// CacheTTL returns the quote cache TTL as a duration
func (b *BrapiConfig) CacheTTL() time.Duration {
	return time.Duration(b.CacheTTLSeconds) * time.Second
}

// Policy maps the configured over-sell policy name onto the engine type
func (e *EngineConfig) Policy() (position.OversellPolicy, error) {
	switch e.OversellPolicy {
	case "", "clamp":
		return position.OversellClamp, nil
	case "reject":
		return position.OversellReject, nil
	case "allow_short":
		return position.OversellAllowShort, nil
	default:
		return position.OversellClamp, fmt.Errorf("unknown oversell policy %q", e.OversellPolicy)
	}
}

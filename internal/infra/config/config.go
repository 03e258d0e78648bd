package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Inference InferenceConfig `yaml:"inference"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Geo       GeoConfig       `yaml:"geo"`
	Registry  RegistryConfig  `yaml:"registry"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// InferenceConfig points at the model serving endpoint. URL and token
// are resolved here once and injected into the client; nothing else in
// the codebase touches the environment for them.
type InferenceConfig struct {
	EndpointURL     string        `yaml:"endpointUrl"`
	Token           string        `yaml:"token"`
	PredictionField string        `yaml:"predictionField"`
	Timeout         time.Duration `yaml:"timeout"`
}

// PricingConfig is the published rate card for cost estimates.
type PricingConfig struct {
	BaseFee     float64 `yaml:"baseFee"`
	PerMileRate float64 `yaml:"perMileRate"`
	PerKgRate   float64 `yaml:"perKgRate"`
}

// GeoConfig tunes route rendering.
type GeoConfig struct {
	PathPoints int `yaml:"pathPoints"`
}

// RegistryConfig selects the warehouse registry source. With an empty
// DSN the embedded registry is used.
type RegistryConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
}

// SnapshotConfig selects where the current prediction snapshot lives.
type SnapshotConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the snapshot store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
// Validation failures here stop the process before it ever serves a
// prediction.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	// The serving endpoint keeps the variable names used by the original
	// Databricks deployment.
	if v := os.Getenv("DATABRICKS_URL"); v != "" {
		cfg.Inference.EndpointURL = v
	}
	if v := os.Getenv("DATABRICKS_TOKEN"); v != "" {
		cfg.Inference.Token = v
	}
	if v := os.Getenv("PREDICTION_FIELD"); v != "" {
		cfg.Inference.PredictionField = v
	}
	if v := os.Getenv("INFERENCE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Inference.Timeout = parsed
		}
	}
	if v := os.Getenv("PRICING_BASE_FEE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pricing.BaseFee = parsed
		}
	}
	if v := os.Getenv("PRICING_PER_MILE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pricing.PerMileRate = parsed
		}
	}
	if v := os.Getenv("PRICING_PER_KG"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pricing.PerKgRate = parsed
		}
	}
	if v := os.Getenv("GEO_PATH_POINTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Geo.PathPoints = parsed
		}
	}
	if v := os.Getenv("REGISTRY_POSTGRES_DSN"); v != "" {
		cfg.Registry.Postgres.DSN = v
	}
	if v := os.Getenv("REGISTRY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Registry.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("SNAPSHOT_VALKEY_ENABLED"); v != "" {
		cfg.Snapshot.Valkey.Enabled = isTruthy(v)
	}
	if v := os.Getenv("SNAPSHOT_VALKEY_ADDR"); v != "" {
		cfg.Snapshot.Valkey.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Inference: InferenceConfig{
			PredictionField: "predictions",
			Timeout:         30 * time.Second,
		},
		Pricing: PricingConfig{
			BaseFee:     15.0,
			PerMileRate: 0.45,
			PerKgRate:   1.20,
		},
		Geo: GeoConfig{
			PathPoints: 64,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Inference.EndpointURL) == "" {
		return errors.New("inference.endpointUrl is required (DATABRICKS_URL)")
	}
	if strings.TrimSpace(c.Inference.Token) == "" {
		return errors.New("inference.token is required (DATABRICKS_TOKEN)")
	}
	if strings.TrimSpace(c.Inference.PredictionField) == "" {
		return errors.New("inference.predictionField cannot be empty")
	}
	if c.Inference.Timeout <= 0 {
		return errors.New("inference.timeout must be positive")
	}
	if c.Pricing.BaseFee < 0 || c.Pricing.PerMileRate < 0 || c.Pricing.PerKgRate < 0 {
		return errors.New("pricing rates cannot be negative")
	}
	if c.Geo.PathPoints < 2 {
		return errors.New("geo.pathPoints must be at least 2")
	}
	if c.Snapshot.Valkey.Enabled && strings.TrimSpace(c.Snapshot.Valkey.Addr) == "" {
		return errors.New("snapshot.valkey.addr cannot be empty when the valkey store is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

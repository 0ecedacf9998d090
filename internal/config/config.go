package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"cardiodash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Data      DataConfig
	Session   SessionConfig
	Log       LogConfig
	Profiling ProfilingConfig
	Telemetry TelemetryConfig
}

// AppConfig identifies the running service
type AppConfig struct {
	Name string
	Env  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig points at the flat files the dashboard reads
type DataConfig struct {
	DatasetPath     string
	ModelPath       string
	BackgroundImage string
	SampleSize      int
}

// SessionConfig bounds the in-memory session store
type SessionConfig struct {
	TTL        time.Duration
	CacheBytes int
	CookieName string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// TelemetryConfig holds tracing export settings. An empty endpoint disables export.
type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

const minSessionCacheBytes = 512 * 1024

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "cardiodash")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATASET_PATH", "dataset/heart_failure_clinical_records.csv")
	v.SetDefault("MODEL_PATH", "model/random_forest_model.json")
	v.SetDefault("BACKGROUND_IMAGE", "image/background.jpeg")
	v.SetDefault("SAMPLE_SIZE", 5)
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_CACHE_BYTES", 4*1024*1024)
	v.SetDefault("SESSION_COOKIE", "cardiodash_session")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("PPROF_ENABLED", false)
	v.SetDefault("PPROF_PORT", "6060")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "")
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
		},
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Data: DataConfig{
			DatasetPath:     v.GetString("DATASET_PATH"),
			ModelPath:       v.GetString("MODEL_PATH"),
			BackgroundImage: v.GetString("BACKGROUND_IMAGE"),
			SampleSize:      v.GetInt("SAMPLE_SIZE"),
		},
		Session: SessionConfig{
			TTL:        v.GetDuration("SESSION_TTL"),
			CacheBytes: v.GetInt("SESSION_CACHE_BYTES"),
			CookieName: v.GetString("SESSION_COOKIE"),
		},
		Log: LogConfig{
			Level: strings.ToUpper(v.GetString("LOG_LEVEL")),
		},
		Profiling: ProfilingConfig{
			Port:    v.GetString("PPROF_PORT"),
			Enabled: v.GetBool("PPROF_ENABLED"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
		},
	}
	if config.Telemetry.ServiceName == "" {
		config.Telemetry.ServiceName = config.App.Name
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Data.DatasetPath == "" {
		return errors.ConfigInvalid("DATASET_PATH is required")
	}
	if config.Data.ModelPath == "" {
		return errors.ConfigInvalid("MODEL_PATH is required")
	}
	if config.Data.SampleSize <= 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be a positive duration")
	}
	if config.Session.CacheBytes < minSessionCacheBytes {
		return errors.ConfigInvalid("SESSION_CACHE_BYTES must be at least 512KiB")
	}
	if config.Session.CookieName == "" {
		return errors.ConfigInvalid("SESSION_COOKIE is required")
	}
	return nil
}

// Addr is the listen address of the dashboard server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

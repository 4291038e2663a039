// Package config loads service configuration from an optional YAML file and
// LEADINTAKE_-prefixed environment variables. Environment variables win over
// the file; both win over the built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the service's environment variables, e.g.
// LEADINTAKE_MONGO_URI maps to mongo.uri.
const envPrefix = "LEADINTAKE_"

// Config holds the full service configuration
type Config struct {
	Server     Server     `koanf:"server"`
	Mongo      Mongo      `koanf:"mongo"`
	AgencyBloc AgencyBloc `koanf:"agencybloc"`
	RateLimit  RateLimit  `koanf:"ratelimit"`
	Admin      Admin      `koanf:"admin"`
	Sync       Sync       `koanf:"sync"`
}

// Server configures the HTTP listener
type Server struct {
	Listen              string        `koanf:"listen" validate:"required"`
	ReadTimeout         time.Duration `koanf:"readtimeout"`
	WriteTimeout        time.Duration `koanf:"writetimeout"`
	ShutdownGracePeriod time.Duration `koanf:"shutdowngraceperiod"`
	MaxBodySize         int64         `koanf:"maxbodysize" validate:"gte=0"`
	Debug               bool          `koanf:"debug"`
	Pretty              bool          `koanf:"pretty"`
}

// Mongo configures the lead store connection
type Mongo struct {
	URI      string `koanf:"uri" validate:"required"`
	Database string `koanf:"database" validate:"required"`
}

// AgencyBloc configures the CRM client. When SID or Key is empty the CRM
// integration is disabled and leads accumulate for later sync.
type AgencyBloc struct {
	SID            string        `koanf:"sid"`
	Key            string        `koanf:"key"`
	BaseURL        string        `koanf:"baseurl" validate:"omitempty,url"`
	RequestTimeout time.Duration `koanf:"requesttimeout"`
}

// RateLimit configures the per-IP submission limiter
type RateLimit struct {
	MaxRequests int           `koanf:"maxrequests" validate:"gte=0"`
	Window      time.Duration `koanf:"window"`
}

// Admin configures the shared token guarding operational endpoints
type Admin struct {
	Token string `koanf:"token"`
}

// Sync configures the background CRM sync worker
type Sync struct {
	SweepInterval time.Duration `koanf:"sweepinterval"`
	StaleClaimAge time.Duration `koanf:"staleclaimage"`
	RetryBatch    int           `koanf:"retrybatch" validate:"gte=0"`
}

// defaults returns the configuration used when no file or environment
// overrides are present.
func defaults() *Config {
	return &Config{
		Server: Server{
			Listen:              ":8080",
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        30 * time.Second,
			ShutdownGracePeriod: 30 * time.Second,
			MaxBodySize:         64 * 1024,
		},
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "leadintake",
		},
		AgencyBloc: AgencyBloc{
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimit{
			MaxRequests: 10,
			Window:      time.Minute,
		},
		Sync: Sync{
			SweepInterval: 5 * time.Minute,
			StaleClaimAge: 10 * time.Minute,
			RetryBatch:    10,
		},
	}
}

// Load reads configuration from the given YAML file path (skipped when nil
// or missing) and the environment. A .env file in the working directory is
// honored for local development.
func Load(cfgPath *string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if cfgPath != nil && *cfgPath != "" {
		if _, err := os.Stat(*cfgPath); err == nil {
			if err := k.Load(file.Provider(*cfgPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", *cfgPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := defaults()

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// envKeyMapper turns LEADINTAKE_MONGO_URI into mongo.uri.
func envKeyMapper(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
}

// CRMConfigured reports whether AgencyBloc credentials are present.
func (c *Config) CRMConfigured() bool {
	return c.AgencyBloc.SID != "" && c.AgencyBloc.Key != ""
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config file search order; the CINELOG_CONFIG env var overrides both.
var defaultConfigPaths = []string{"cinelog.yaml", "config/cinelog.yaml"}

type Config struct {
	SecretKey   string `koanf:"secret_key"`
	DatabaseURL string `koanf:"database_url"`
	TMDBAPIKey  string `koanf:"tmdb_api_key"`
	Port        string `koanf:"port"`
	Environment string `koanf:"env"`
	Debug       bool   `koanf:"debug"`

	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

// BootstrapConfig describes an optional account seeded at startup.
// Seeding is skipped entirely unless a password is configured.
type BootstrapConfig struct {
	Username string `koanf:"username"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}

func defaults() Config {
	return Config{
		SecretKey:   "dev-key-change-in-production",
		DatabaseURL: "cinelog.db",
		Port:        "5000",
		Environment: "development",
		Bootstrap: BootstrapConfig{
			Username: "admin",
			Email:    "admin@cinelog.local",
		},
	}
}

// Load builds the configuration from three layers, lowest priority first:
// built-in defaults, an optional YAML config file, then environment
// variables. A missing TMDB API key is not an error; catalog features
// degrade instead.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func findConfigFile() string {
	if p := os.Getenv("CINELOG_CONFIG"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform maps environment variable names onto koanf config paths.
// Unknown variables return "" and are ignored.
func envTransform(key string) string {
	mappings := map[string]string{
		"SECRET_KEY":         "secret_key",
		"DATABASE_URL":       "database_url",
		"TMDB_API_KEY":       "tmdb_api_key",
		"PORT":               "port",
		"ENV":                "env",
		"DEBUG":              "debug",
		"BOOTSTRAP_USERNAME": "bootstrap.username",
		"BOOTSTRAP_EMAIL":    "bootstrap.email",
		"BOOTSTRAP_PASSWORD": "bootstrap.password",
	}
	return mappings[strings.ToUpper(key)]
}

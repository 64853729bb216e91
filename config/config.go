package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/powerplan/core/dispatch"
	"github.com/kilianp07/powerplan/core/history"
	"github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/infra/mqtt"
)

// EnvPrefix prefixes the environment variables overriding file settings.
// Nested keys are separated by a double underscore, for example
// K_DISPATCH__SEARCH_BUDGET.
const EnvPrefix = "K_"

type Config struct {
	HTTP     HTTPConfig      `json:"http"`
	Dispatch dispatch.Config `json:"dispatch"`
	MQTT     mqtt.Config     `json:"mqtt"`
	Metrics  metrics.Config  `json:"metrics"`
	History  history.Config  `json:"history"`
	Logging  LoggingConfig   `json:"logging"`
	Sentry   SentryConfig    `json:"sentry"`
}

// Load reads the YAML or JSON file at path, applies the environment
// overrides, then the defaults, and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	return build(k)
}

// LoadEnv builds the configuration from the environment overrides and the
// defaults only. It is used when no configuration file exists.
func LoadEnv() (*Config, error) {
	return build(koanf.New("."))
}

func build(k *koanf.Koanf) (*Config, error) {
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	c.Dispatch.SetDefaults()
	c.MQTT.SetDefaults()
	c.History.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

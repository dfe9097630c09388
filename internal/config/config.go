// Package config loads focusflow settings from defaults, an optional YAML
// file and FOCUSFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tgienger/focusflow/internal/assistant"
)

// EnvPrefix namespaces environment overrides, e.g. FOCUSFLOW_ASSISTANT_MODEL
const EnvPrefix = "FOCUSFLOW"

// Config is the full application configuration
type Config struct {
	Assistant AssistantConfig `mapstructure:"assistant"`
	Log       LogConfig       `mapstructure:"log"`
}

// AssistantConfig configures the generative-language client
type AssistantConfig struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	// APIKeyEnv names the environment variable holding the credential
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LogConfig configures diagnostics. An empty File discards log output.
type LogConfig struct {
	File string `mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Model:     assistant.DefaultModel,
			BaseURL:   assistant.DefaultBaseURL,
			APIKeyEnv: "API_KEY",
			Timeout:   assistant.DefaultTimeout,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/focusflow/config.yaml or the
// platform equivalent
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "focusflow", "config.yaml")
}

// Load reads configuration. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("assistant.model", d.Assistant.Model)
	v.SetDefault("assistant.base_url", d.Assistant.BaseURL)
	v.SetDefault("assistant.api_key_env", d.Assistant.APIKeyEnv)
	v.SetDefault("assistant.timeout", d.Assistant.Timeout)
	v.SetDefault("log.file", d.Log.File)
}

// Validate rejects settings the app cannot run with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Assistant.Model) == "" {
		return errors.New("assistant.model must not be empty")
	}
	if strings.TrimSpace(c.Assistant.APIKeyEnv) == "" {
		return errors.New("assistant.api_key_env must not be empty")
	}
	if c.Assistant.Timeout <= 0 {
		return fmt.Errorf("assistant.timeout must be positive, got %s", c.Assistant.Timeout)
	}
	return nil
}

// APIKey reads the credential from the configured environment variable
func (c *Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.Assistant.APIKeyEnv))
}

// AssistantClientConfig converts the settings into client options
func (c *Config) AssistantClientConfig() assistant.Config {
	return assistant.Config{
		APIKey:  c.APIKey(),
		Model:   c.Assistant.Model,
		BaseURL: c.Assistant.BaseURL,
		Timeout: c.Assistant.Timeout,
	}
}

// LoadEnv loads .env style files into the environment. Missing files are
// skipped and variables already set are kept.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

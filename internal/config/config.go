package config

// #region imports
import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region types

// Config is the analyzer's deployment configuration. Rule tables live in a
// separate file referenced by RulesPath. Timeouts are plain seconds in the
// YAML file.
type Config struct {
	Expert struct {
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"expert"`

	Dispatch struct {
		TaskTimeoutSeconds int `yaml:"task_timeout_seconds"`
		MaxConcurrent      int `yaml:"max_concurrent"`
	} `yaml:"dispatch"`

	Audit struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"audit"`

	RulesPath string `yaml:"rules_path"`
}

// ExpertTimeout returns the expert call timeout as a duration.
func (c Config) ExpertTimeout() time.Duration {
	return time.Duration(c.Expert.TimeoutSeconds) * time.Second
}

// TaskTimeout returns the per-specialist timeout as a duration.
func (c Config) TaskTimeout() time.Duration {
	return time.Duration(c.Dispatch.TaskTimeoutSeconds) * time.Second
}

// #endregion types

// #region load

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Expert.Endpoint = "http://localhost:8000/v1/chat/completions"
	cfg.Expert.Model = "gpt-4o-mini"
	cfg.Expert.TimeoutSeconds = 90
	cfg.Dispatch.TaskTimeoutSeconds = 60
	cfg.Dispatch.MaxConcurrent = 4
	cfg.Audit.DBPath = "analyzer.db"
	return cfg
}

// Load reads a YAML config file over the defaults. A missing file returns
// the defaults and no error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Expert.Endpoint == "" {
		cfg.Expert.Endpoint = def.Expert.Endpoint
	}
	if cfg.Expert.Model == "" {
		cfg.Expert.Model = def.Expert.Model
	}
	if cfg.Expert.TimeoutSeconds == 0 {
		cfg.Expert.TimeoutSeconds = def.Expert.TimeoutSeconds
	}
	if cfg.Dispatch.TaskTimeoutSeconds == 0 {
		cfg.Dispatch.TaskTimeoutSeconds = def.Dispatch.TaskTimeoutSeconds
	}
	if cfg.Dispatch.MaxConcurrent == 0 {
		cfg.Dispatch.MaxConcurrent = def.Dispatch.MaxConcurrent
	}
	if cfg.Audit.DBPath == "" {
		cfg.Audit.DBPath = def.Audit.DBPath
	}
}

// #endregion load

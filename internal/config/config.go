package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// APIConfig holds the connection settings for the project-management API
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig holds logging settings. The TUI owns the terminal, so logs
// always go to a file.
type LogConfig struct {
	File string `yaml:"file"`
}

type Config struct {
	API     APIConfig `yaml:"api"`
	Log     LogConfig `yaml:"log"`
	DataDir string    `yaml:"data_dir"`
}

// Load reads the config file from the XDG config directory, falling back
// to defaults when the file is missing, then applies env overrides.
func Load() (*Config, error) {
	cfg := defaults()

	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	}

	overrideFromEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:3000/api/v1",
			TimeoutSeconds: 60,
		},
	}
}

func configPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "projadm", "config.yaml"), nil
}

// DataPath resolves the directory holding the settings database and log
// file, creating it if needed.
func (c *Config) DataPath() (string, error) {
	if c.DataDir != "" {
		if err := os.MkdirAll(c.DataDir, 0755); err != nil {
			return "", err
		}
		return c.DataDir, nil
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "projadm")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}

func overrideFromEnv(cfg *Config) {
	if url := os.Getenv("PROJADM_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if timeout := os.Getenv("PROJADM_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			cfg.API.TimeoutSeconds = t
		}
	}
	if file := os.Getenv("PROJADM_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
	if dir := os.Getenv("PROJADM_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
}

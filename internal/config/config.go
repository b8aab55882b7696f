// Package config loads finsync settings from ~/.finsync/config.yaml with
// environment overrides (FINSYNC_*).
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	// WebAppURL is the deployed spreadsheet web app endpoint.
	WebAppURL string `mapstructure:"web_app_url" yaml:"web_app_url"`

	// DBPath is the local store database file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// Debounce is the quiet period after a mutation before an export.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`

	// Interval is the periodic export cadence.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`

	// DashboardPort is where the WebSocket status server listens.
	DashboardPort int `mapstructure:"dashboard_port" yaml:"dashboard_port"`

	// LogFile, when set, routes daemon logs through a rotating file
	// instead of stderr.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// Dir returns the finsync configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".finsync"), nil
}

func defaults(dir string) Config {
	return Config{
		DBPath:        filepath.Join(dir, "finsync.db"),
		Debounce:      1 * time.Second,
		Interval:      60 * time.Second,
		DashboardPort: 8422,
	}
}

// Load reads the config file (if any) and environment overrides.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	def := defaults(dir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("web_app_url", def.WebAppURL)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("debounce", def.Debounce)
	v.SetDefault("interval", def.Interval)
	v.SetDefault("dashboard_port", def.DashboardPort)
	v.SetDefault("log_file", def.LogFile)

	v.SetEnvPrefix("FINSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes a starter config file, refusing to overwrite an
// existing one. It returns the file path.
func WriteDefault(webAppURL string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	cfg := defaults(dir)
	cfg.WebAppURL = webAppURL
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// NewLogger builds a bracketed-prefix logger. When the config names a log
// file the output rotates through it; otherwise it goes to stderr.
func (c *Config) NewLogger(prefix string) *log.Logger {
	if c.LogFile == "" {
		return log.New(os.Stderr, prefix, log.LstdFlags)
	}
	return log.New(&lumberjack.Logger{
		Filename:   c.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, prefix, log.LstdFlags)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultStorePath is the JSON document holding the collection.
	DefaultStorePath = "contacts.json"

	// DefaultBackupDir is where backup copies are written.
	DefaultBackupDir = "backups"

	// EnvPrefix prefixes every environment override, e.g. CONTACTMASTER_STORE_PATH.
	EnvPrefix = "CONTACTMASTER"
)

// Config holds all configuration for contactmaster.
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Backup  BackupConfig  `mapstructure:"backup"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig locates the record store.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// BackupConfig controls where backups go and how many are retained.
type BackupConfig struct {
	Dir  string `mapstructure:"dir"`
	Keep int    `mapstructure:"keep"` // 0 keeps every backup
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	return load(filepath.Join(homeDir(), ".contactmaster"), ".")
}

func load(searchPaths ...string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("store.path", DefaultStorePath)
	v.SetDefault("backup.dir", DefaultBackupDir)
	v.SetDefault("backup.keep", 0)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "csv")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file: defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if strings.TrimSpace(c.Backup.Dir) == "" {
		return fmt.Errorf("backup.dir must not be empty")
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must be >= 0")
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		return fmt.Errorf("export.dir must not be empty")
	}
	switch strings.ToLower(c.Export.Format) {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("export.format must be csv or xlsx, got %q", c.Export.Format)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/fire-folders/folders"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"`
	Pool    PoolConfig    `mapstructure:"pool"`
	Cleanup CleanupConfig `mapstructure:"cleanup"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Names   NamesConfig   `mapstructure:"names"`
	Log     LogConfig     `mapstructure:"log"`
}

// RemoteConfig points at the photo backend.
type RemoteConfig struct {
	BaseURL        string `mapstructure:"baseURL"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// Timeout returns the per-request timeout
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// PoolConfig decides which uploads are shown in the pool.
type PoolConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Ignore     []string `mapstructure:"ignore"`
}

// CleanupConfig bounds the bulk delete pipeline.
type CleanupConfig struct {
	Workers int `mapstructure:"workers"`
}

// UploadConfig lists the formats accepted for upload.
type UploadConfig struct {
	Extensions []string `mapstructure:"extensions"`
}

// NamesConfig controls group name reconciliation with the backend.
type NamesConfig struct {
	SyncAfterCompaction bool `mapstructure:"syncAfterCompaction"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("remote.baseURL", internal.DefaultRemoteURL)
	v.SetDefault("remote.timeoutSeconds", internal.DefaultRemoteTimeoutSeconds)
	v.SetDefault("pool.extensions", internal.DefaultPoolExtensions)
	v.SetDefault("pool.ignore", internal.DefaultPoolIgnore)
	v.SetDefault("cleanup.workers", internal.DefaultCleanupWorkers)
	v.SetDefault("upload.extensions", internal.DefaultUploadExtensions)
	v.SetDefault("names.syncAfterCompaction", false)
	v.SetDefault("log.level", internal.DefaultLogLevel)

	// FIREFOLDERS_REMOTE_BASEURL overrides remote.baseURL
	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if cfg.Cleanup.Workers < 1 {
		cfg.Cleanup.Workers = internal.DefaultCleanupWorkers
	}
	if cfg.Remote.TimeoutSeconds <= 0 {
		cfg.Remote.TimeoutSeconds = internal.DefaultRemoteTimeoutSeconds
	}
	return &cfg, nil
}

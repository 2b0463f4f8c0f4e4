package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the sync client.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	API       APIConfig     `mapstructure:"api"`
	Sync      SyncConfig    `mapstructure:"sync"`
	Log       LogConfig     `mapstructure:"log"`
	Journal   JournalConfig `mapstructure:"journal"`
	Snapshots S3Config      `mapstructure:"snapshots"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
	Server    ServerConfig  `mapstructure:"server"`
}

// APIConfig points at the fitness REST API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Token   string        `mapstructure:"token"` // bearer token, optional
}

type SyncConfig struct {
	// MaxConcurrency bounds in-flight calls of one fan-out step.
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// JournalConfig configures the MongoDB sync journal.
type JournalConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// S3Config configures the snapshot bucket. Any S3-compatible endpoint works.
type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	KeepOnSuccess   bool   `mapstructure:"keep_on_success"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format on exit.
	Textfile string `mapstructure:"textfile"`
}

// ServerConfig is used by the reference backend (serve-fake).
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoadConfig reads config.yaml from path, then environment variables
// (api.base_url -> API_BASE_URL), on top of the defaults.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, nil
}

// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.token", "")
	v.SetDefault("sync.max_concurrency", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.uri", "mongodb://localhost:27017")
	v.SetDefault("journal.database", "fitness_sync")
	v.SetDefault("journal.collection", "sync_journal")
	v.SetDefault("snapshots.enabled", false)
	v.SetDefault("snapshots.endpoint", "")
	v.SetDefault("snapshots.region", "us-east-1")
	v.SetDefault("snapshots.access_key_id", "")
	v.SetDefault("snapshots.secret_access_key", "")
	v.SetDefault("snapshots.bucket_name", "fitness-sync-snapshots")
	v.SetDefault("snapshots.use_ssl", true)
	v.SetDefault("snapshots.keep_on_success", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("server.address", ":8080")
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Sync.MaxConcurrency <= 0 {
		return errors.New("sync.max_concurrency must be positive")
	}
	if c.Journal.Enabled && c.Journal.URI == "" {
		return errors.New("journal.uri is required when the journal is enabled")
	}
	if c.Snapshots.Enabled && c.Snapshots.BucketName == "" {
		return errors.New("snapshots.bucket_name is required when snapshots are enabled")
	}
	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Db      DbConfig      `mapstructure:"db"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Lock    LockConfig    `mapstructure:"lock"`
	Poller  PollerConfig  `mapstructure:"poller"`
	// Queue is optional, without it lock events are only logged
	Queue   *QueueConfig  `mapstructure:"queue"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Storage.Validate(); err != nil {
		return err
	}

	if cfg.Storage.Type == StorageTypeMongo {
		if err := cfg.Db.Validate(); err != nil {
			return err
		}
	}

	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	if err := cfg.Lock.Validate(); err != nil {
		return err
	}

	if err := cfg.Poller.Validate(); err != nil {
		return err
	}

	if cfg.Queue != nil {
		if err := cfg.Queue.Validate(); err != nil {
			return err
		}
	}

	return cfg.Metrics.Validate()
}

// New returns a fully parsed Config object from a given file path.
// Values from the file can be overridden by environment variables, nested
// keys are joined with underscores (LOCK_COOLDOWN-PERIOD for lock.cooldown-period).
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

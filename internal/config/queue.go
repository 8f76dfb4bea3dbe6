package config

import (
	"fmt"
	"time"
)

const (
	defaultPublishTimeout   = 5 * time.Second
	defaultMaxRetryAttempts = 3
)

type QueueConfig struct {
	Url              string        `mapstructure:"url"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	// Exchange is a topic exchange, events are routed by their type
	Exchange         string        `mapstructure:"exchange"`
	PublishTimeout   time.Duration `mapstructure:"publish-timeout"`
	MaxRetryAttempts uint          `mapstructure:"max-retry-attempts"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return fmt.Errorf("queue url is required")
	}

	if cfg.Exchange == "" {
		return fmt.Errorf("queue exchange is required")
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	if cfg.MaxRetryAttempts == 0 {
		cfg.MaxRetryAttempts = defaultMaxRetryAttempts
	}

	return nil
}

// AmqpURL builds the broker url with credentials
func (cfg *QueueConfig) AmqpURL() string {
	if cfg.User == "" {
		return fmt.Sprintf("amqp://%s", cfg.Url)
	}
	return fmt.Sprintf("amqp://%s:%s@%s", cfg.User, cfg.Password, cfg.Url)
}

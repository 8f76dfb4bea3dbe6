package config

import (
	"errors"
	"time"
)

const defaultStatsPollingInterval = 5 * time.Minute

type PollerConfig struct {
	ExitCheckerPollingInterval time.Duration `mapstructure:"exit-checker-polling-interval"`
	ClaimableExitsLimit        uint64        `mapstructure:"claimable-exits-limit"`
	StatsPollingInterval       time.Duration `mapstructure:"stats-polling-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.ExitCheckerPollingInterval <= 0 {
		return errors.New("exit-checker-polling-interval must be positive")
	}

	if cfg.ClaimableExitsLimit <= 0 {
		return errors.New("claimable-exits-limit must be positive")
	}

	if cfg.StatsPollingInterval <= 0 {
		cfg.StatsPollingInterval = defaultStatsPollingInterval
	}

	return nil
}

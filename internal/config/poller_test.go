package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerConfig_Validate(t *testing.T) {
	t.Run("all required fields set", func(t *testing.T) {
		cfg := &PollerConfig{
			ExitCheckerPollingInterval: 2 * time.Minute,
			ClaimableExitsLimit:        100,
			StatsPollingInterval:       3 * time.Minute,
		}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, 3*time.Minute, cfg.StatsPollingInterval)
	})

	t.Run("stats polling interval not set - should use default", func(t *testing.T) {
		cfg := &PollerConfig{
			ExitCheckerPollingInterval: 2 * time.Minute,
			ClaimableExitsLimit:        100,
			StatsPollingInterval:       0, // not set
		}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, defaultStatsPollingInterval, cfg.StatsPollingInterval)
		assert.Equal(t, 5*time.Minute, cfg.StatsPollingInterval)
	})

	t.Run("stats polling interval negative - should use default", func(t *testing.T) {
		cfg := &PollerConfig{
			ExitCheckerPollingInterval: 2 * time.Minute,
			ClaimableExitsLimit:        100,
			StatsPollingInterval:       -1 * time.Minute, // negative
		}
		err := cfg.Validate()
		require.NoError(t, err)
		assert.Equal(t, defaultStatsPollingInterval, cfg.StatsPollingInterval)
	})

	t.Run("exit checker polling interval not set - should error", func(t *testing.T) {
		cfg := &PollerConfig{
			ExitCheckerPollingInterval: 0,
			ClaimableExitsLimit:        100,
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exit-checker-polling-interval must be positive")
	})

	t.Run("claimable exits limit not set - should error", func(t *testing.T) {
		cfg := &PollerConfig{
			ExitCheckerPollingInterval: 2 * time.Minute,
			ClaimableExitsLimit:        0,
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "claimable-exits-limit must be positive")
	})
}

package config

import (
	"fmt"
	"time"

	"cosmossdk.io/math"

	"github.com/vetdao/governance-locks/internal/lockengine"
)

const (
	WeightCurveLinear = "linear"
	WeightCurveFlat   = "flat"

	FeeScheduleFlat  = "flat"
	FeeScheduleDepth = "depth"
)

type LockConfig struct {
	WarmupDuration time.Duration `mapstructure:"warmup-duration"`
	MinDuration    time.Duration `mapstructure:"min-duration"`
	MaxDuration    time.Duration `mapstructure:"max-duration"`
	CooldownPeriod time.Duration `mapstructure:"cooldown-period"`
	Transferable   bool          `mapstructure:"transferable"`
	AllowCancel    bool          `mapstructure:"allow-cancel"`
	Weight         WeightConfig  `mapstructure:"weight"`
	Fee            FeeConfig     `mapstructure:"fee"`
}

// WeightConfig describes the voting weight curve. Weights are decimal strings.
type WeightConfig struct {
	Curve   string        `mapstructure:"curve"`
	Min     string        `mapstructure:"min"`
	Max     string        `mapstructure:"max"`
	Horizon time.Duration `mapstructure:"horizon"`
	Value   string        `mapstructure:"value"`
}

type FeeConfig struct {
	Schedule string `mapstructure:"schedule"`
	Bps      uint32 `mapstructure:"bps"`
	BaseBps  uint32 `mapstructure:"base-bps"`
	StepBps  uint32 `mapstructure:"step-bps"`
	StepSize int    `mapstructure:"step-size"`
	MaxBps   uint32 `mapstructure:"max-bps"`
}

func (cfg *LockConfig) Validate() error {
	_, err := cfg.Params()
	return err
}

// Params converts the section into the engine parameters
func (cfg *LockConfig) Params() (*lockengine.Params, error) {
	weight, err := cfg.Weight.curve()
	if err != nil {
		return nil, err
	}

	fee, err := cfg.Fee.schedule()
	if err != nil {
		return nil, err
	}

	params := &lockengine.Params{
		WarmupDuration: cfg.WarmupDuration,
		MinDuration:    cfg.MinDuration,
		MaxDuration:    cfg.MaxDuration,
		CooldownPeriod: cfg.CooldownPeriod,
		Transferable:   cfg.Transferable,
		AllowCancel:    cfg.AllowCancel,
		Weight:         weight,
		Fee:            fee,
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lock config: %w", err)
	}

	return params, nil
}

func (cfg *WeightConfig) curve() (lockengine.WeightCurve, error) {
	switch cfg.Curve {
	case WeightCurveLinear:
		minWeight, err := math.LegacyNewDecFromStr(cfg.Min)
		if err != nil {
			return nil, fmt.Errorf("invalid weight min %q: %w", cfg.Min, err)
		}
		maxWeight, err := math.LegacyNewDecFromStr(cfg.Max)
		if err != nil {
			return nil, fmt.Errorf("invalid weight max %q: %w", cfg.Max, err)
		}
		return lockengine.LinearCurve{Min: minWeight, Max: maxWeight, Horizon: cfg.Horizon}, nil
	case WeightCurveFlat:
		value, err := math.LegacyNewDecFromStr(cfg.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value %q: %w", cfg.Value, err)
		}
		return lockengine.FlatCurve{Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown weight curve %q", cfg.Curve)
	}
}

func (cfg *FeeConfig) schedule() (lockengine.FeeSchedule, error) {
	switch cfg.Schedule {
	case FeeScheduleFlat:
		return lockengine.FlatFee{Bps: cfg.Bps}, nil
	case FeeScheduleDepth:
		return lockengine.DepthFee{
			BaseBps:  cfg.BaseBps,
			StepBps:  cfg.StepBps,
			StepSize: cfg.StepSize,
			MaxBps:   cfg.MaxBps,
		}, nil
	default:
		return nil, fmt.Errorf("unknown fee schedule %q", cfg.Schedule)
	}
}

package lockengine

import (
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/math"
)

const (
	defaultWarmupDuration = 7 * 24 * time.Hour
	defaultMinDuration    = 30 * 24 * time.Hour
	defaultMaxDuration    = 4 * 365 * 24 * time.Hour
	defaultCooldownPeriod = 14 * 24 * time.Hour
	defaultFeeBps         = 200
)

// Params is the configuration snapshot every engine operation runs against.
// A Params value is never modified after it has been handed to a Registry;
// Registry.UpdateParams swaps in a new one.
type Params struct {
	WarmupDuration time.Duration
	MinDuration    time.Duration
	// MaxDuration bounds the term of a lock, zero means unbounded
	MaxDuration    time.Duration
	CooldownPeriod time.Duration
	Transferable   bool
	AllowCancel    bool
	Weight         WeightCurve
	Fee            FeeSchedule
}

func DefaultParams() *Params {
	return &Params{
		WarmupDuration: defaultWarmupDuration,
		MinDuration:    defaultMinDuration,
		MaxDuration:    defaultMaxDuration,
		CooldownPeriod: defaultCooldownPeriod,
		Transferable:   false,
		AllowCancel:    true,
		Weight: LinearCurve{
			Min:     math.LegacyOneDec(),
			Max:     math.LegacyNewDec(4),
			Horizon: defaultMaxDuration,
		},
		Fee: FlatFee{Bps: defaultFeeBps},
	}
}

func (p *Params) Validate() error {
	if p.WarmupDuration < 0 {
		return errors.New("warmup duration must not be negative")
	}
	if p.MinDuration <= 0 {
		return errors.New("min duration must be positive")
	}
	if p.MaxDuration != 0 && p.MaxDuration < p.MinDuration {
		return fmt.Errorf("max duration %s is lower than min duration %s", p.MaxDuration, p.MinDuration)
	}
	if p.CooldownPeriod < 0 {
		return errors.New("cooldown period must not be negative")
	}
	if p.Weight == nil {
		return errors.New("weight curve is required")
	}
	if err := p.Weight.Validate(); err != nil {
		return err
	}
	if p.Fee == nil {
		return errors.New("fee schedule is required")
	}
	return p.Fee.Validate()
}

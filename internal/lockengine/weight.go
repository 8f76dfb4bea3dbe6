package lockengine

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// WeightCurve maps the remaining lock term to a voting power multiplier.
// Implementations must be continuous, non-decreasing in remaining and
// bounded by [min, max] with min > 0.
type WeightCurve interface {
	Weight(remaining time.Duration) math.LegacyDec
	Bounds() (min, max math.LegacyDec)
	Validate() error
}

// LinearCurve grows linearly from Min at zero remaining term to Max at
// Horizon and stays flat afterwards.
type LinearCurve struct {
	Min     math.LegacyDec
	Max     math.LegacyDec
	Horizon time.Duration
}

func (c LinearCurve) Weight(remaining time.Duration) math.LegacyDec {
	if remaining <= 0 {
		return c.Min
	}
	if remaining >= c.Horizon {
		return c.Max
	}

	span := c.Max.Sub(c.Min)
	frac := math.LegacyNewDec(int64(remaining)).QuoInt64(int64(c.Horizon))
	return c.Min.Add(span.Mul(frac))
}

func (c LinearCurve) Bounds() (math.LegacyDec, math.LegacyDec) {
	return c.Min, c.Max
}

func (c LinearCurve) Validate() error {
	if c.Min.IsNil() || c.Max.IsNil() {
		return fmt.Errorf("linear curve bounds must be set")
	}
	if !c.Min.IsPositive() {
		return fmt.Errorf("linear curve min weight must be positive, got %s", c.Min)
	}
	if c.Max.LT(c.Min) {
		return fmt.Errorf("linear curve max weight %s is lower than min weight %s", c.Max, c.Min)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("linear curve horizon must be positive")
	}
	return nil
}

// FlatCurve gives every lock the same weight regardless of remaining term.
type FlatCurve struct {
	Value math.LegacyDec
}

func (c FlatCurve) Weight(time.Duration) math.LegacyDec {
	return c.Value
}

func (c FlatCurve) Bounds() (math.LegacyDec, math.LegacyDec) {
	return c.Value, c.Value
}

func (c FlatCurve) Validate() error {
	if c.Value.IsNil() || !c.Value.IsPositive() {
		return fmt.Errorf("flat curve weight must be positive")
	}
	return nil
}

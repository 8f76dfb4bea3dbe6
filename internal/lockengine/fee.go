package lockengine

import (
	"fmt"

	"cosmossdk.io/math"
)

// BasisPointsDenominator is 100% expressed in basis points
const BasisPointsDenominator = 10_000

// FeeSchedule yields the exit fee, in basis points, charged to a lock that
// is admitted to the exit queue while queueDepth other locks are waiting.
type FeeSchedule interface {
	FeeBps(queueDepth int) uint32
	Validate() error
}

// FlatFee charges the same rate regardless of queue depth.
type FlatFee struct {
	Bps uint32
}

func (f FlatFee) FeeBps(int) uint32 {
	return f.Bps
}

func (f FlatFee) Validate() error {
	if f.Bps > BasisPointsDenominator {
		return fmt.Errorf("flat fee %d bps exceeds 100%%", f.Bps)
	}
	return nil
}

// DepthFee raises the rate by StepBps for every StepSize locks already
// waiting in the queue, capped at MaxBps.
type DepthFee struct {
	BaseBps  uint32
	StepBps  uint32
	StepSize int
	MaxBps   uint32
}

func (f DepthFee) FeeBps(queueDepth int) uint32 {
	if queueDepth < 0 {
		queueDepth = 0
	}

	steps := uint64(queueDepth / f.StepSize)
	fee := uint64(f.BaseBps) + steps*uint64(f.StepBps)
	if fee > uint64(f.MaxBps) {
		return f.MaxBps
	}
	return uint32(fee)
}

func (f DepthFee) Validate() error {
	if f.StepSize <= 0 {
		return fmt.Errorf("depth fee step size must be positive")
	}
	if f.MaxBps > BasisPointsDenominator {
		return fmt.Errorf("depth fee max %d bps exceeds 100%%", f.MaxBps)
	}
	if f.BaseBps > f.MaxBps {
		return fmt.Errorf("depth fee base %d bps exceeds max %d bps", f.BaseBps, f.MaxBps)
	}
	return nil
}

// ApplyFee splits amount into the fee retained at exit and the amount released
// to the owner. The fee is truncated so the owner never receives less than
// the exact rate implies.
func ApplyFee(amount math.Int, feeBps uint32) (fee, released math.Int) {
	fee = amount.MulRaw(int64(feeBps)).QuoRaw(BasisPointsDenominator)
	return fee, amount.Sub(fee)
}

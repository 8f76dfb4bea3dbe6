package lockengine_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/lockengine"
)

func TestVotingPowerWarmup(t *testing.T) {
	params := testParams()
	r := newRegistry(t, params)
	lock := createLock(t, r, 1000, 365*day, genesis)

	t.Run("zero strictly before warmup end", func(t *testing.T) {
		for _, now := range []time.Time{
			genesis,
			at(day),
			at(6 * day),
			lock.WarmupEnd.Add(-time.Nanosecond),
		} {
			power := lockengine.VotingPower(lock, now, params.Weight)
			assert.True(t, power.IsZero(), "power at %s should be zero, got %s", now, power)
		}
	})
	t.Run("positive at warmup end", func(t *testing.T) {
		power := lockengine.VotingPower(lock, lock.WarmupEnd, params.Weight)
		assert.True(t, power.IsPositive())

		expected := params.Weight.Weight(358 * day).MulInt(math.NewInt(1000))
		assert.True(t, expected.Equal(power), "expected %s, got %s", expected, power)
	})
	t.Run("minimal amount still votes", func(t *testing.T) {
		tiny := createLock(t, r, 1, 30*day, genesis)
		power := lockengine.VotingPower(tiny, at(30*day), params.Weight)
		assert.True(t, power.IsPositive())
	})
	t.Run("zero warmup votes immediately", func(t *testing.T) {
		noWarmup := testParams()
		noWarmup.WarmupDuration = 0
		r := newRegistry(t, noWarmup)
		lock := createLock(t, r, 10, 30*day, genesis)
		assert.True(t, lockengine.VotingPower(lock, genesis, noWarmup.Weight).IsPositive())
	})
}

func TestVotingPowerDecaysWithRemainingTerm(t *testing.T) {
	params := testParams()
	r := newRegistry(t, params)
	lock := createLock(t, r, 1000, 365*day, genesis)

	previous := lockengine.VotingPower(lock, lock.WarmupEnd, params.Weight)
	for d := 8 * day; d <= 400*day; d += 7 * day {
		power := lockengine.VotingPower(lock, at(d), params.Weight)
		assert.True(t, power.LTE(previous), "power increased at day %d", d/day)
		assert.True(t, power.IsPositive())
		previous = power
	}

	// past lock end the minimum weight applies
	minWeight, _ := params.Weight.Bounds()
	assert.True(t, minWeight.MulInt(math.NewInt(1000)).Equal(lockengine.VotingPower(lock, at(500*day), params.Weight)))
}

func TestVotingPowerFrozenWhileQueued(t *testing.T) {
	ctx := context.Background()
	params := testParams()
	r := newRegistry(t, params)
	lock := createLock(t, r, 1000, 30*day, genesis)

	power, err := r.VotingPower(lock.ID, at(29*day))
	require.NoError(t, err)
	assert.True(t, power.IsPositive())

	_, err = r.EnterQueue(ctx, lock.ID, at(30*day))
	require.NoError(t, err)

	power, err = r.VotingPower(lock.ID, at(30*day))
	require.NoError(t, err)
	assert.True(t, power.IsZero())

	_, err = r.CancelExit(ctx, lock.ID, at(31*day))
	require.NoError(t, err)
	power, err = r.VotingPower(lock.ID, at(31*day))
	require.NoError(t, err)
	assert.True(t, power.IsPositive())

	_, err = r.VotingPower(404, at(31*day))
	require.Error(t, err)
}

func TestBreakdown(t *testing.T) {
	ctx := context.Background()
	params := testParams()
	params.Weight = lockengine.FlatCurve{Value: math.LegacyNewDec(2)}
	r := newRegistry(t, params)

	warming, err := r.CreateLock(ctx, "0xalice", math.NewInt(100), 60*day, at(20*day))
	require.NoError(t, err)
	_, err = r.CreateLock(ctx, "0xalice", math.NewInt(200), 60*day, genesis)
	require.NoError(t, err)
	queued, err := r.CreateLock(ctx, "0xalice", math.NewInt(400), 30*day, genesis)
	require.NoError(t, err)
	exited, err := r.CreateLock(ctx, "0xalice", math.NewInt(800), 30*day, genesis)
	require.NoError(t, err)
	_, err = r.CreateLock(ctx, "0xbob", math.NewInt(1600), 60*day, genesis)
	require.NoError(t, err)

	// the newest lock still warms up at day 26
	b := r.OwnerBreakdown("0xalice", at(26*day))
	assert.True(t, b.TotalLocked.Equal(math.NewInt(100+200+400+800)))
	assert.Equal(t, 1, b.WarmingUpCount)
	assert.True(t, b.WarmingUpLocked.Equal(math.NewInt(100)))
	assert.Equal(t, 3, b.ActiveCount)
	assert.True(t, b.ActiveLocked.Equal(math.NewInt(200+400+800)))
	assert.True(t, b.ActiveVotingPower.Equal(math.LegacyNewDec(2*(200+400+800))))
	assert.True(t, b.TotalVotingPower.Equal(b.ActiveVotingPower))
	assert.Equal(t, warming.WarmupEnd, at(27*day))

	_, err = r.EnterQueue(ctx, queued.ID, at(30*day))
	require.NoError(t, err)
	_, err = r.EnterQueue(ctx, exited.ID, at(30*day))
	require.NoError(t, err)
	_, err = r.ExitFromQueue(ctx, exited.ID, at(44*day))
	require.NoError(t, err)

	b = r.OwnerBreakdown("0xalice", at(45*day))
	assert.True(t, b.TotalLocked.Equal(math.NewInt(100+200+400)))
	assert.Equal(t, 0, b.WarmingUpCount)
	assert.Equal(t, 2, b.ActiveCount)
	assert.True(t, b.ActiveLocked.Equal(math.NewInt(300)))
	assert.Equal(t, 1, b.QueuedCount)
	assert.True(t, b.QueuedLocked.Equal(math.NewInt(400)))
	assert.Equal(t, 1, b.ExitedCount)
	assert.True(t, b.ActiveVotingPower.Equal(math.LegacyNewDec(600)))
	assert.True(t, b.TotalVotingPower.Equal(math.LegacyNewDec(600)))

	global := r.GlobalBreakdown(at(45 * day))
	assert.True(t, global.TotalLocked.Equal(math.NewInt(100+200+400+1600)))
	assert.Equal(t, 3, global.ActiveCount)

	empty := r.OwnerBreakdown("0xnobody", at(45*day))
	assert.True(t, empty.TotalLocked.IsZero())
	assert.True(t, empty.TotalVotingPower.IsZero())
}

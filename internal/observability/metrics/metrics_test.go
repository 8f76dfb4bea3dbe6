package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPollerDuration(t *testing.T) {
	failing := RecordPollerDuration("test-failing", func(context.Context) error {
		return errors.New("boom")
	})
	require.Error(t, failing(t.Context()))

	ok := RecordPollerDuration("test-ok", func(context.Context) error { return nil })
	require.NoError(t, ok(t.Context()))

	assert.Equal(t, 2, testutil.CollectAndCount(pollerDurationHistogram))
	assert.Equal(t, 1, testutil.CollectAndCount(pollerLastSuccessGauge, "poller_last_success_timestamp_seconds"))
	assert.Positive(t, testutil.ToFloat64(pollerLastSuccessGauge.WithLabelValues("test-ok")))
}

func TestGauges(t *testing.T) {
	RecordTotalLocked(math.NewInt(1500))
	assert.Equal(t, 1500.0, testutil.ToFloat64(totalLockedGauge))

	RecordTotalVotingPower(math.LegacyNewDecWithPrec(25, 1))
	assert.Equal(t, 2.5, testutil.ToFloat64(totalVotingPowerGauge))

	RecordExitQueueDepth(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(exitQueueDepthGauge))

	RecordLockOperation("create", false)
	RecordLockOperation("create", false)
	assert.Equal(t, 2.0, testutil.ToFloat64(lockOperationCounter.WithLabelValues("create", Success.String())))

	RecordDbLatency(time.Millisecond, "SaveLock", false)
}

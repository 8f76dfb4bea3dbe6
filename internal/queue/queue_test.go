package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/types"
)

func TestQueueManagerNotStarted(t *testing.T) {
	qm, err := NewQueueManager(&config.QueueConfig{
		Url:              "localhost:5672",
		Exchange:         "locks",
		PublishTimeout:   time.Second,
		MaxRetryAttempts: 3,
	}, nil)
	require.NoError(t, err)

	err = qm.PushLockEvent(t.Context(), &types.LockEvent{EventType: types.EventLockCreated, LockID: 1})
	require.ErrorIs(t, err, errNotStarted)
	assert.NoError(t, qm.Stop())
	assert.NoError(t, qm.Stop())

	_, err = NewQueueManager(nil, nil)
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Start())
	require.NoError(t, p.PushLockEvent(t.Context(), &types.LockEvent{
		EventType: types.EventExitClaimable,
		LockID:    7,
		Owner:     "0xowner",
	}))
	require.NoError(t, p.Stop())

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "EXIT_CLAIMABLE", fields["event_type"])
	assert.Equal(t, uint64(7), fields["lock_id"])
}

func TestRoutingKey(t *testing.T) {
	ev := &types.LockEvent{EventType: types.EventLockTransferred}
	assert.Equal(t, "lock_transferred", ev.RoutingKey())
}

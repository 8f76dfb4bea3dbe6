package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAlphaNum(t *testing.T) {
	_, err := RandomAlphaNum(0)
	require.Error(t, err)

	for _, length := range []int{1, 3, 10} {
		str, err := RandomAlphaNum(length)
		require.NoError(t, err)
		assert.Len(t, str, length)
	}
}

func TestFakeDocuments(t *testing.T) {
	lock := FakeLockDocument(9)
	assert.Equal(t, uint64(9), lock.ID)
	assert.NotEmpty(t, lock.Owner)
	assert.Greater(t, lock.LockEnd, lock.WarmupEnd)
	assert.Greater(t, lock.WarmupEnd, lock.LockStart)

	entry := FakeExitQueueDocument(lock, 100, 250)
	assert.Equal(t, lock.ID, entry.LockID)
	assert.Equal(t, lock.LockEnd+100, entry.ScheduledExitAt)
	assert.Equal(t, uint32(250), entry.FeeBps)
	assert.False(t, entry.Announced)
}

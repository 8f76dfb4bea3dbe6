package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/types"
)

// snapshotService serves a single lock snapshot. Any other LockService call
// panics on the nil embedded interface.
type snapshotService struct {
	LockService
	lock   lockengine.Lock
	params *lockengine.Params
	now    time.Time
	reads  int
}

func (s *snapshotService) Now() time.Time {
	return s.now
}

func (s *snapshotService) Params() *lockengine.Params {
	return s.params
}

func (s *snapshotService) GetLock(id uint64) (lockengine.Lock, error) {
	s.reads++
	if id != s.lock.ID {
		return lockengine.Lock{}, types.NewErrorWithMsg(http.StatusNotFound, types.LockNotFound, "lock not found")
	}
	return s.lock, nil
}

func lockRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/locks/"+id+"/status", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestLockStatusUsesOneSnapshot(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	lock := lockengine.Lock{
		ID:        7,
		Owner:     "0xalice",
		Amount:    math.NewInt(50),
		LockStart: start,
		LockEnd:   start.Add(30 * 24 * time.Hour),
		WarmupEnd: start.Add(7 * 24 * time.Hour),
	}
	svc := &snapshotService{
		lock:   lock,
		params: &lockengine.Params{Weight: lockengine.FlatCurve{Value: math.LegacyNewDec(3)}},
		now:    start.Add(10 * 24 * time.Hour),
	}
	h := New(svc)

	result, apiErr := h.GetLockStatus(lockRequest("7"))
	require.Nil(t, apiErr)
	status := result.Data.(PublicResponse[LockStatusPublic]).Data
	assert.Equal(t, types.StatusActive, status.Status)
	assert.Equal(t, math.LegacyNewDec(150).String(), status.VotingPower)
	assert.Equal(t, 1, svc.reads)

	// queued in the snapshot means zero power, whatever the curve says
	svc.lock.ExitEntry = &lockengine.ExitQueueEntry{
		LockID:          lock.ID,
		RequestedAt:     svc.now,
		ScheduledExitAt: svc.now.Add(14 * 24 * time.Hour),
	}
	result, apiErr = h.GetLockStatus(lockRequest("7"))
	require.Nil(t, apiErr)
	status = result.Data.(PublicResponse[LockStatusPublic]).Data
	assert.Equal(t, types.StatusQueued, status.Status)
	assert.Equal(t, math.LegacyZeroDec().String(), status.VotingPower)
	assert.Equal(t, 2, svc.reads)

	_, apiErr = h.GetLockStatus(lockRequest("8"))
	require.NotNil(t, apiErr)
	assert.Equal(t, types.LockNotFound, apiErr.ErrorCode)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdao/governance-locks/internal/api"
	"github.com/vetdao/governance-locks/internal/api/handlers"
	"github.com/vetdao/governance-locks/internal/clock"
	"github.com/vetdao/governance-locks/internal/config"
	"github.com/vetdao/governance-locks/internal/db/embedded"
	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/services"
	"github.com/vetdao/governance-locks/internal/types"
	"github.com/vetdao/governance-locks/tests/mocks"
)

const day = 24 * time.Hour

var genesis = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	handler http.Handler
	clock   *clock.MockClock
	store   *embedded.Store
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	return setupServerWithConfig(t, &config.ServerConfig{})
}

func setupServerWithConfig(t *testing.T, serverCfg *config.ServerConfig) *testEnv {
	t.Helper()

	store, err := embedded.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})

	params := &lockengine.Params{
		WarmupDuration: 7 * day,
		MinDuration:    30 * day,
		MaxDuration:    4 * 365 * day,
		CooldownPeriod: 14 * day,
		Transferable:   true,
		AllowCancel:    true,
		Weight:         lockengine.FlatCurve{Value: math.LegacyNewDec(2)},
		Fee:            lockengine.FlatFee{Bps: 100},
	}
	clk := clock.NewMockClock(genesis)
	cfg := &config.Config{
		Poller: config.PollerConfig{
			ExitCheckerPollingInterval: time.Second,
			ClaimableExitsLimit:        10,
			StatsPollingInterval:       time.Second,
		},
	}

	svc, err := services.NewService(cfg, params, store, mocks.NewEventPublisher(t), clk)
	require.NoError(t, err)

	server := api.New(serverCfg, svc)
	return &testEnv{handler: server.Handler(), clock: clk, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp handlers.PublicResponse[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func ts(d time.Duration) *int64 {
	v := genesis.Add(d).Unix()
	return &v
}

func (e *testEnv) createLock(t *testing.T, owner string, amount string, duration time.Duration) handlers.LockPublic {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/locks", handlers.CreateLockRequest{
		Owner:    owner,
		Amount:   amount,
		Duration: uint64(duration / time.Second),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[handlers.LockPublic](t, rec)
}

func TestHealthCheck(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	require.NoError(t, env.store.Close(context.Background()))
	rec = env.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTraceIDIsEchoed(t *testing.T) {
	env := setupServer(t)
	const id = "0b9e2d55-0d8e-4b25-9ad2-4a1a4b6f5e2c"

	req := httptest.NewRequest(http.MethodGet, "/v1/queue/stats", nil)
	req.Header.Set("X-Request-ID", id)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	env := setupServerWithConfig(t, &config.ServerConfig{RateLimit: 0.001, RateBurst: 2})

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodGet, "/v1/queue/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/v1/queue/stats", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, types.TooManyRequests.String(), decodeError(t, rec).ErrorCode)
}

func TestCreateAndGetLock(t *testing.T) {
	env := setupServer(t)

	lock := env.createLock(t, "0xalice", "1000", 30*day)
	assert.Equal(t, uint64(1), lock.ID)
	assert.Equal(t, "0xalice", lock.Owner)
	assert.Equal(t, "1000", lock.Amount)
	assert.Equal(t, genesis.Unix(), lock.LockStart)
	assert.Equal(t, genesis.Add(30*day).Unix(), lock.LockEnd)
	assert.Equal(t, genesis.Add(7*day).Unix(), lock.WarmupEnd)
	assert.Equal(t, types.StatusWarmingUp, lock.Status)
	assert.Equal(t, math.LegacyZeroDec().String(), lock.VotingPower)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/locks/%d?timestamp=%d", lock.ID, *ts(7*day)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[handlers.LockPublic](t, rec)
	assert.Equal(t, types.StatusActive, got.Status)
	assert.Equal(t, math.LegacyNewDec(2000).String(), got.VotingPower)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/v1/locks/%d/status", lock.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[handlers.LockStatusPublic](t, rec)
	assert.Equal(t, types.StatusWarmingUp, status.Status)

	t.Run("validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/locks", handlers.CreateLockRequest{
			Owner: "0xalice", Amount: "1000", Duration: uint64(day / time.Second),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, types.InvalidLockParameters.String(), decodeError(t, rec).ErrorCode)

		rec = env.do(t, http.MethodPost, "/v1/locks", handlers.CreateLockRequest{
			Owner: "0xalice", Amount: "ten", Duration: uint64(30 * day / time.Second),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, types.InvalidAmount.String(), decodeError(t, rec).ErrorCode)

		rec = env.do(t, http.MethodPost, "/v1/locks", map[string]any{"owner": "0xalice", "unknown": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, types.BadRequest.String(), decodeError(t, rec).ErrorCode)

		negative := int64(-1)
		rec = env.do(t, http.MethodPost, "/v1/locks", handlers.CreateLockRequest{
			Owner: "0xalice", Amount: "1", Duration: uint64(30 * day / time.Second), Timestamp: &negative,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown lock", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/locks/404", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, types.LockNotFound.String(), decodeError(t, rec).ErrorCode)

		rec = env.do(t, http.MethodGet, "/v1/locks/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMutations(t *testing.T) {
	env := setupServer(t)
	lock := env.createLock(t, "0xalice", "100", 30*day)
	path := fmt.Sprintf("/v1/locks/%d", lock.ID)

	rec := env.do(t, http.MethodPost, path+"/increase-amount", handlers.IncreaseAmountRequest{Amount: "50", Timestamp: ts(day)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "150", decode[handlers.LockPublic](t, rec).Amount)

	rec = env.do(t, http.MethodPost, path+"/increase-amount", handlers.IncreaseAmountRequest{Amount: "0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.InvalidAmount.String(), decodeError(t, rec).ErrorCode)

	newEnd := genesis.Add(60 * day).Unix()
	rec = env.do(t, http.MethodPost, path+"/increase-duration", handlers.IncreaseDurationRequest{LockEnd: newEnd, Timestamp: ts(day)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, newEnd, decode[handlers.LockPublic](t, rec).LockEnd)

	rec = env.do(t, http.MethodPost, path+"/increase-duration", handlers.IncreaseDurationRequest{LockEnd: newEnd})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.DurationNotIncreasing.String(), decodeError(t, rec).ErrorCode)

	rec = env.do(t, http.MethodPost, path+"/transfer", handlers.TransferLockRequest{NewOwner: "0xbob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "0xbob", decode[handlers.LockPublic](t, rec).Owner)

	rec = env.do(t, http.MethodGet, "/v1/owners/0xbob/locks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	owned := decode[[]handlers.LockPublic](t, rec)
	require.Len(t, owned, 1)
	assert.Equal(t, lock.ID, owned[0].ID)

	rec = env.do(t, http.MethodGet, "/v1/owners/0xalice/locks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]handlers.LockPublic](t, rec))
}

func TestExitQueueFlow(t *testing.T) {
	env := setupServer(t)
	lock := env.createLock(t, "0xalice", "1000", 30*day)
	path := fmt.Sprintf("/v1/locks/%d", lock.ID)

	rec := env.do(t, http.MethodGet, path+"/queue-eligibility", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	eligibility := decode[handlers.EligibilityPublic](t, rec)
	assert.False(t, eligibility.CanEnter)
	assert.Equal(t, lockengine.ReasonWarmingUp, eligibility.Reason)

	rec = env.do(t, http.MethodPost, path+"/queue", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, types.NotEligibleForQueue.String(), decodeError(t, rec).ErrorCode)

	env.clock.Advance(30 * day)
	rec = env.do(t, http.MethodGet, path+"/queue-eligibility", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[handlers.EligibilityPublic](t, rec).CanEnter)

	// without a body the service clock applies
	rec = env.do(t, http.MethodPost, path+"/queue", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	queued := decode[handlers.LockPublic](t, rec)
	assert.Equal(t, types.StatusQueued, queued.Status)
	require.NotNil(t, queued.ExitEntry)
	assert.Equal(t, genesis.Add(44*day).Unix(), queued.ExitEntry.ScheduledExitAt)
	assert.Equal(t, uint32(100), queued.ExitEntry.FeeBps)
	assert.Equal(t, math.LegacyZeroDec().String(), queued.VotingPower)

	rec = env.do(t, http.MethodGet, "/v1/queue/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[handlers.QueueStatsPublic](t, rec)
	assert.Equal(t, 1, stats.QueueDepth)
	assert.Equal(t, genesis.Add(44*day).Unix(), stats.NextExitDate)
	assert.Equal(t, int64(14*24*3600), stats.CooldownPeriod)

	rec = env.do(t, http.MethodPost, "/v1/queue/info", handlers.QueueInfoRequest{LockIDs: []uint64{lock.ID, 404}, Timestamp: ts(40 * day)})
	require.Equal(t, http.StatusOK, rec.Code)
	infos := decode[[]handlers.QueueInfoPublic](t, rec)
	require.Len(t, infos, 1)
	assert.False(t, infos[0].CanExit)
	assert.Equal(t, int64(4*24*3600), infos[0].TimeToMinLock)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("%s/exit-eligibility?timestamp=%d", path, *ts(40 * day)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exitEligibility := decode[handlers.ExitEligibilityPublic](t, rec)
	assert.False(t, exitEligibility.CanExit)
	assert.Equal(t, int64(4*24*3600), exitEligibility.TimeToMinLock)
	assert.NotEmpty(t, exitEligibility.Reason)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("%s/exit-eligibility?timestamp=%d", path, *ts(44 * day)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exitEligibility = decode[handlers.ExitEligibilityPublic](t, rec)
	assert.True(t, exitEligibility.CanExit)
	assert.Zero(t, exitEligibility.TimeToMinLock)

	rec = env.do(t, http.MethodPost, path+"/exit", handlers.TimestampRequest{Timestamp: ts(43 * day)})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, types.CooldownNotElapsed.String(), decodeError(t, rec).ErrorCode)

	rec = env.do(t, http.MethodPost, path+"/exit", handlers.TimestampRequest{Timestamp: ts(44 * day)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	receipt := decode[handlers.ExitReceiptPublic](t, rec)
	assert.Equal(t, "990", receipt.Released)
	assert.Equal(t, "10", receipt.Fee)
	assert.Equal(t, genesis.Add(44*day).Unix(), receipt.ExitedAt)

	rec = env.do(t, http.MethodPost, path+"/increase-amount", handlers.IncreaseAmountRequest{Amount: "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, types.LockExitedOrQueued.String(), decodeError(t, rec).ErrorCode)

	rec = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exited := decode[handlers.LockPublic](t, rec)
	assert.Equal(t, types.StatusExited, exited.Status)
	assert.Equal(t, "0", exited.Amount)
	require.NotNil(t, exited.Receipt)
}

func TestCancelExit(t *testing.T) {
	env := setupServer(t)
	lock := env.createLock(t, "0xalice", "1000", 30*day)
	path := fmt.Sprintf("/v1/locks/%d", lock.ID)

	rec := env.do(t, http.MethodGet, path+"/exit-eligibility", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[handlers.ExitEligibilityPublic](t, rec).CanExit)

	rec = env.do(t, http.MethodPost, path+"/cancel-exit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, types.NotQueued.String(), decodeError(t, rec).ErrorCode)

	rec = env.do(t, http.MethodPost, path+"/queue", handlers.TimestampRequest{Timestamp: ts(30 * day)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, path+"/cancel-exit", handlers.TimestampRequest{Timestamp: ts(31 * day)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cancelled := decode[handlers.LockPublic](t, rec)
	assert.Equal(t, types.StatusActive, cancelled.Status)
	assert.Nil(t, cancelled.ExitEntry)
	assert.Equal(t, "1000", cancelled.Amount)
}

func TestVotingPower(t *testing.T) {
	env := setupServer(t)
	env.createLock(t, "0xalice", "100", 30*day)
	env.createLock(t, "0xalice", "300", 60*day)
	env.createLock(t, "0xbob", "1000", 30*day)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/owners/0xalice/voting-power?timestamp=%d", *ts(10 * day)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	power := decode[handlers.VotingPowerPublic](t, rec)
	assert.Equal(t, "0xalice", power.Owner)
	assert.Equal(t, "400", power.TotalLocked)
	assert.Equal(t, 2, power.ActiveCount)
	assert.Equal(t, math.LegacyNewDec(800).String(), power.TotalVotingPower)

	rec = env.do(t, http.MethodGet, "/v1/owners/0xcarol/voting-power", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", decode[handlers.VotingPowerPublic](t, rec).TotalLocked)

	rec = env.do(t, http.MethodGet, "/v1/owners/0xalice/voting-power?timestamp=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/owners/0xalice/locks?status=WARMING_UP", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]handlers.LockPublic](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/v1/owners/0xalice/locks?status=QUEUED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]handlers.LockPublic](t, rec))

	rec = env.do(t, http.MethodGet, "/v1/owners/0xalice/locks?status=LOCKED", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOversizedBody(t *testing.T) {
	env := setupServer(t)

	body := `{"owner":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/locks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

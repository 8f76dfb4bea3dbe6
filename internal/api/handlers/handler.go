package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/math"
	"github.com/go-chi/chi/v5"

	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/types"
)

// LockService is the part of the service layer the handlers call
type LockService interface {
	Now() time.Time
	Params() *lockengine.Params
	Ping(ctx context.Context) error

	CreateLock(ctx context.Context, owner string, amount math.Int, duration time.Duration, now time.Time) (lockengine.Lock, error)
	IncreaseAmount(ctx context.Context, id uint64, additional math.Int, now time.Time) (lockengine.Lock, error)
	IncreaseDuration(ctx context.Context, id uint64, newLockEnd time.Time, now time.Time) (lockengine.Lock, error)
	TransferLock(ctx context.Context, id uint64, newOwner string, now time.Time) (lockengine.Lock, error)
	EnterQueue(ctx context.Context, id uint64, now time.Time) (lockengine.Lock, error)
	ExitFromQueue(ctx context.Context, id uint64, now time.Time) (lockengine.ExitReceipt, error)
	CancelExit(ctx context.Context, id uint64, now time.Time) (lockengine.Lock, error)

	GetLock(id uint64) (lockengine.Lock, error)
	LocksByOwner(owner string) []lockengine.Lock
	CanEnterQueue(id uint64, now time.Time) lockengine.Eligibility
	CanExit(id uint64, now time.Time) lockengine.ExitEligibility
	GetQueueInfo(ids []uint64, now time.Time) []lockengine.QueueInfo
	QueueStats(now time.Time) lockengine.QueueStats
	OwnerBreakdown(owner string, now time.Time) lockengine.VotingPowerBreakdown
}

// maxRequestBodySize bounds every JSON body the api accepts
const maxRequestBodySize = 1 << 20

type Handler struct {
	svc LockService
}

func New(svc LockService) *Handler {
	return &Handler{svc: svc}
}

type Result struct {
	Data   any
	Status int
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

func NewResult[T any](data T) *Result {
	return &Result{Data: PublicResponse[T]{Data: data}, Status: http.StatusOK}
}

func NewCreatedResult[T any](data T) *Result {
	return &Result{Data: PublicResponse[T]{Data: data}, Status: http.StatusCreated}
}

// toError keeps typed service errors and hides anything else behind an
// internal error
func toError(err error) *types.Error {
	var typedErr *types.Error
	if errors.As(err, &typedErr) {
		return typedErr
	}
	return types.NewInternalServiceError(err)
}

func badRequest(format string, args ...any) *types.Error {
	return types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, fmt.Sprintf(format, args...))
}

func parseLockID(r *http.Request) (uint64, *types.Error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid lock id %q", raw)
	}
	return id, nil
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) *types.Error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// resolveNow picks the caller supplied unix timestamp, falling back to the
// service clock
func (h *Handler) resolveNow(timestamp *int64) (time.Time, *types.Error) {
	if timestamp == nil {
		return h.svc.Now(), nil
	}
	if *timestamp < 0 {
		return time.Time{}, badRequest("timestamp must not be negative")
	}
	return time.Unix(*timestamp, 0).UTC(), nil
}

func (h *Handler) queryNow(r *http.Request) (time.Time, *types.Error) {
	raw := r.URL.Query().Get("timestamp")
	if raw == "" {
		return h.svc.Now(), nil
	}
	timestamp, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, badRequest("invalid timestamp %q", raw)
	}
	return h.resolveNow(&timestamp)
}

func parseAmount(raw string) (math.Int, *types.Error) {
	amount, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidAmount, fmt.Sprintf("invalid amount %q", raw),
		)
	}
	return amount, nil
}

// maxDurationSeconds keeps seconds * time.Second inside int64
const maxDurationSeconds = uint64(1<<63-1) / uint64(time.Second)

func parseDuration(seconds uint64) (time.Duration, *types.Error) {
	if seconds > maxDurationSeconds {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest, types.InvalidLockParameters, fmt.Sprintf("duration %ds is too long", seconds),
		)
	}
	return time.Duration(seconds) * time.Second, nil
}

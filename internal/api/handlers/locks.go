package handlers

import (
	"net/http"
	"time"

	"github.com/vetdao/governance-locks/internal/lockengine"
	"github.com/vetdao/governance-locks/internal/types"
)

// lockPublic renders the lock together with its status and voting power at
// now, both derived from the same snapshot
func (h *Handler) lockPublic(lock lockengine.Lock, now time.Time) LockPublic {
	power := lockengine.VotingPower(lock, now, h.svc.Params().Weight)
	return newLockPublic(lock, lock.Status(now), power)
}

func (h *Handler) lockResult(lock lockengine.Lock, now time.Time, status int) (*Result, *types.Error) {
	public := h.lockPublic(lock, now)
	if status == http.StatusCreated {
		return NewCreatedResult(public), nil
	}
	return NewResult(public), nil
}

// CreateLock godoc
// POST /v1/locks
func (h *Handler) CreateLock(r *http.Request) (*Result, *types.Error) {
	var req CreateLockRequest
	if apiErr := decodeBody(r, &req, false); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}
	amount, apiErr := parseAmount(req.Amount)
	if apiErr != nil {
		return nil, apiErr
	}
	duration, apiErr := parseDuration(req.Duration)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.CreateLock(r.Context(), req.Owner, amount, duration, now)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusCreated)
}

// GetLock godoc
// GET /v1/locks/{id}
func (h *Handler) GetLock(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.GetLock(id)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusOK)
}

// GetLockStatus godoc
// GET /v1/locks/{id}/status
func (h *Handler) GetLockStatus(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.GetLock(id)
	if err != nil {
		return nil, toError(err)
	}
	public := h.lockPublic(lock, now)

	return NewResult(LockStatusPublic{
		LockID:      id,
		Status:      public.Status,
		VotingPower: public.VotingPower,
	}), nil
}

// IncreaseAmount godoc
// POST /v1/locks/{id}/increase-amount
func (h *Handler) IncreaseAmount(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	var req IncreaseAmountRequest
	if apiErr := decodeBody(r, &req, false); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}
	amount, apiErr := parseAmount(req.Amount)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.IncreaseAmount(r.Context(), id, amount, now)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusOK)
}

// IncreaseDuration godoc
// POST /v1/locks/{id}/increase-duration
func (h *Handler) IncreaseDuration(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	var req IncreaseDurationRequest
	if apiErr := decodeBody(r, &req, false); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.IncreaseDuration(r.Context(), id, time.Unix(req.LockEnd, 0).UTC(), now)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusOK)
}

// TransferLock godoc
// POST /v1/locks/{id}/transfer
func (h *Handler) TransferLock(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	var req TransferLockRequest
	if apiErr := decodeBody(r, &req, false); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.TransferLock(r.Context(), id, req.NewOwner, now)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusOK)
}

// GetLocksByOwner godoc
// GET /v1/owners/{owner}/locks?status=QUEUED
func (h *Handler) GetLocksByOwner(r *http.Request) (*Result, *types.Error) {
	owner, apiErr := parseOwner(r)
	if apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	var filter types.LockStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := types.ParseLockStatus(raw)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		filter = status
	}

	locks := h.svc.LocksByOwner(owner)
	result := make([]LockPublic, 0, len(locks))
	for _, lock := range locks {
		if filter != "" && lock.Status(now) != filter {
			continue
		}
		result = append(result, h.lockPublic(lock, now))
	}
	return NewResult(result), nil
}

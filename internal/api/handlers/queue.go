package handlers

import (
	"net/http"

	"github.com/vetdao/governance-locks/internal/types"
)

// maxQueueInfoIDs caps the lock ids of a single queue info request
const maxQueueInfoIDs = 1000

// GetQueueEligibility godoc
// GET /v1/locks/{id}/queue-eligibility
func (h *Handler) GetQueueEligibility(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	eligibility := h.svc.CanEnterQueue(id, now)
	return NewResult(EligibilityPublic{
		LockID:   id,
		CanEnter: eligibility.CanEnter,
		Reason:   eligibility.Reason,
	}), nil
}

// EnterQueue godoc
// POST /v1/locks/{id}/queue
func (h *Handler) EnterQueue(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	var req TimestampRequest
	if apiErr := decodeBody(r, &req, true); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.EnterQueue(r.Context(), id, now)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusOK)
}

// GetExitEligibility godoc
// GET /v1/locks/{id}/exit-eligibility
func (h *Handler) GetExitEligibility(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	eligibility := h.svc.CanExit(id, now)
	return NewResult(ExitEligibilityPublic{
		LockID:        id,
		CanExit:       eligibility.CanExit,
		TimeToMinLock: ceilSeconds(eligibility.TimeToMinLock),
		Reason:        eligibility.Reason,
	}), nil
}

// ExitFromQueue godoc
// POST /v1/locks/{id}/exit
func (h *Handler) ExitFromQueue(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	var req TimestampRequest
	if apiErr := decodeBody(r, &req, true); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}

	receipt, err := h.svc.ExitFromQueue(r.Context(), id, now)
	if err != nil {
		return nil, toError(err)
	}
	return NewResult(newExitReceiptPublic(receipt)), nil
}

// CancelExit godoc
// POST /v1/locks/{id}/cancel-exit
func (h *Handler) CancelExit(r *http.Request) (*Result, *types.Error) {
	id, apiErr := parseLockID(r)
	if apiErr != nil {
		return nil, apiErr
	}
	var req TimestampRequest
	if apiErr := decodeBody(r, &req, true); apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}

	lock, err := h.svc.CancelExit(r.Context(), id, now)
	if err != nil {
		return nil, toError(err)
	}
	return h.lockResult(lock, now, http.StatusOK)
}

// GetQueueInfo godoc
// POST /v1/queue/info
func (h *Handler) GetQueueInfo(r *http.Request) (*Result, *types.Error) {
	var req QueueInfoRequest
	if apiErr := decodeBody(r, &req, false); apiErr != nil {
		return nil, apiErr
	}
	if len(req.LockIDs) > maxQueueInfoIDs {
		return nil, badRequest("at most %d lock ids are allowed", maxQueueInfoIDs)
	}
	now, apiErr := h.resolveNow(req.Timestamp)
	if apiErr != nil {
		return nil, apiErr
	}

	infos := h.svc.GetQueueInfo(req.LockIDs, now)
	result := make([]QueueInfoPublic, 0, len(infos))
	for _, info := range infos {
		result = append(result, QueueInfoPublic{
			LockID:        info.LockID,
			Status:        info.Status,
			Entry:         newExitEntryPublic(info.Entry),
			TimeToMinLock: ceilSeconds(info.TimeToMinLock),
			CanExit:       info.CanExit,
		})
	}
	return NewResult(result), nil
}

// GetQueueStats godoc
// GET /v1/queue/stats
func (h *Handler) GetQueueStats(r *http.Request) (*Result, *types.Error) {
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	stats := h.svc.QueueStats(now)
	return NewResult(QueueStatsPublic{
		NextExitDate:   stats.NextExitDate.Unix(),
		CooldownPeriod: ceilSeconds(stats.CooldownPeriod),
		FeeBps:         stats.FeeBps,
		QueueDepth:     stats.QueueDepth,
	}), nil
}

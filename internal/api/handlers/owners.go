package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/vetdao/governance-locks/internal/types"
)

func parseOwner(r *http.Request) (string, *types.Error) {
	owner, err := url.PathUnescape(chi.URLParam(r, "owner"))
	if err != nil || owner == "" {
		return "", badRequest("invalid owner")
	}
	return owner, nil
}

// GetVotingPower godoc
// GET /v1/owners/{owner}/voting-power
func (h *Handler) GetVotingPower(r *http.Request) (*Result, *types.Error) {
	owner, apiErr := parseOwner(r)
	if apiErr != nil {
		return nil, apiErr
	}
	now, apiErr := h.queryNow(r)
	if apiErr != nil {
		return nil, apiErr
	}

	return NewResult(newVotingPowerPublic(owner, h.svc.OwnerBreakdown(owner, now))), nil
}

// HealthCheck godoc
// GET /healthcheck
func (h *Handler) HealthCheck(r *http.Request) (*Result, *types.Error) {
	if err := h.svc.Ping(r.Context()); err != nil {
		return nil, types.NewErrorWithMsg(
			http.StatusServiceUnavailable, types.InternalServiceError, "store is unreachable",
		)
	}
	return NewResult("Governance locks service is up and running"), nil
}

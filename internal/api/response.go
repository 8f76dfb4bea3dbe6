package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vetdao/governance-locks/internal/api/handlers"
	"github.com/vetdao/governance-locks/internal/types"
)

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func newErrorResponse(err *types.Error) *ErrorResponse {
	message := err.Error()
	// internal details stay in the logs
	if err.StatusCode >= http.StatusInternalServerError {
		message = "Internal service error"
	}
	return &ErrorResponse{
		ErrorCode: err.ErrorCode.String(),
		Message:   message,
	}
}

func registerHandler(handlerFunc func(*http.Request) (*handlers.Result, *types.Error)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := handlerFunc(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeResponse(w, r, result.Status, result.Data)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err *types.Error) {
	logger := log.Ctx(r.Context())
	if err.StatusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("errorCode", err.ErrorCode.String()).Msg("request failed")
	} else {
		logger.Debug().Err(err).Str("errorCode", err.ErrorCode.String()).Msg("request rejected")
	}
	writeResponse(w, r, err.StatusCode, newErrorResponse(err))
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		http.Error(w, "Failed to process the request. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}

package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError  ErrorCode = "INTERNAL_SERVICE_ERROR"
	BadRequest            ErrorCode = "BAD_REQUEST"
	TooManyRequests       ErrorCode = "TOO_MANY_REQUESTS"
	InvalidLockParameters ErrorCode = "INVALID_LOCK_PARAMETERS"
	LockNotFound          ErrorCode = "LOCK_NOT_FOUND"
	InvalidAmount         ErrorCode = "INVALID_AMOUNT"
	DurationNotIncreasing ErrorCode = "DURATION_NOT_INCREASING"
	LockExitedOrQueued    ErrorCode = "LOCK_EXITED_OR_QUEUED"
	TransfersDisabled     ErrorCode = "TRANSFERS_DISABLED"
	NotEligibleForQueue   ErrorCode = "NOT_ELIGIBLE_FOR_QUEUE"
	CooldownNotElapsed    ErrorCode = "COOLDOWN_NOT_ELAPSED"
	NotQueued             ErrorCode = "NOT_QUEUED"
	CancelDisabled        ErrorCode = "CANCEL_DISABLED"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is the error returned by every lock and service operation.
// StatusCode is the HTTP status the api layer answers with.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        errors.New(msg),
	}
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsErrorCode reports whether err carries *Error with the given code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	var typedErr *Error
	if errors.As(err, &typedErr) {
		return typedErr.ErrorCode == code
	}
	return false
}

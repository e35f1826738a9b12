package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Input validation failures. The caller must correct the payload and resubmit.
var (
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrMissingEmail        = New("MISSING_EMAIL", http.StatusBadRequest, "email is required")
	ErrInvalidDateRange    = New("INVALID_DATE_RANGE", http.StatusBadRequest, "end date must not be before start date")
	ErrDoorCountOutOfRange = New("DOOR_COUNT_OUT_OF_RANGE", http.StatusBadRequest, "door count must be between 1 and 31")
)

// State conflicts. The caller must wait or explicitly resolve the conflict.
var (
	ErrCalendarNotActive     = New("CALENDAR_NOT_ACTIVE", http.StatusConflict, "calendar is not accepting entries")
	ErrDoorNotYetOpen        = New("DOOR_NOT_YET_OPEN", http.StatusConflict, "door has not opened yet")
	ErrWinnerAlreadySelected = New("WINNER_ALREADY_SELECTED", http.StatusConflict, "a winner has already been selected for this door")
	ErrWinnerAlreadyExists   = New("WINNER_ALREADY_EXISTS", http.StatusConflict, "door already has a winner")
	ErrAlreadyEntered        = New("ALREADY_ENTERED", http.StatusConflict, "an entry for this door already exists")
	ErrShrinkBlocked         = New("SHRINK_BLOCKED_BY_EXISTING_PARTICIPATION", http.StatusConflict, "cannot remove doors that already have entries or winners")
	ErrNoEligibleEntries     = New("NO_ELIGIBLE_ENTRIES", http.StatusPreconditionFailed, "door has no eligible entries to draw from")
)

// Consent and compliance failures. Terminal for the attempt; no partial
// record is created.
var (
	ErrTermsNotAccepted    = New("TERMS_NOT_ACCEPTED", http.StatusUnprocessableEntity, "terms must be accepted")
	ErrPrivacyNotAccepted  = New("PRIVACY_NOT_ACCEPTED", http.StatusUnprocessableEntity, "privacy policy must be accepted")
	ErrQuizAnswersRequired = New("QUIZ_ANSWERS_REQUIRED", http.StatusUnprocessableEntity, "quiz answers are required for this door")
	ErrQuizFailedNoRetry   = New("QUIZ_FAILED_NO_RETRY", http.StatusUnprocessableEntity, "quiz not passed and retries are not allowed")
)

// Not-found and generic errors.
var (
	ErrCalendarNotFound   = New("CALENDAR_NOT_FOUND", http.StatusNotFound, "calendar not found")
	ErrDoorNotFound       = New("DOOR_NOT_FOUND", http.StatusNotFound, "door not found")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

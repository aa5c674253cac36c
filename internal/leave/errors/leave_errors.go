package leaveerrors

import (
	"fmt"
	"net/http"

	"go-hrcore/internal/shared/apperror"
)

var (
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected RFC 3339",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_time must be after start_time",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an active leave request already covers part of this period",
		http.StatusConflict,
	)
	ErrQuotaExceeded = apperror.New(
		apperror.CodeQuotaExceeded,
		"requested hours exceed the remaining quota for this leave type",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the request owner may modify it",
		http.StatusForbidden,
	)
	ErrRejectReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a rejection reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidAttachment = apperror.New(
		apperror.CodeInvalidInput,
		"attachment does not exist or is already bound to another request",
		http.StatusBadRequest,
	)
	ErrWrongDepartment = apperror.New(
		apperror.CodeForbidden,
		"managers may only review requests from their own department",
		http.StatusForbidden,
	)
	ErrMissingPermission = apperror.New(
		apperror.CodeForbidden,
		"you do not have permission to review this request",
		http.StatusForbidden,
	)
	ErrAwaitingManagerReview = apperror.New(
		apperror.CodeInvalidState,
		"request must be manager-reviewed first",
		http.StatusConflict,
	)
	ErrUnknownAction = apperror.New(
		apperror.CodeInvalidInput,
		"unknown review action",
		http.StatusBadRequest,
	)
	ErrSerializationConflict = apperror.New(
		apperror.CodeConflict,
		"a concurrent submission touched the same records, please retry",
		http.StatusConflict,
	)
)

// NotPending is returned when an owner mutation hits a request that has
// already left the pending state. The current state is surfaced so clients
// refresh instead of retrying.
func NotPending(current string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("request is no longer pending (current state: %s)", current),
		http.StatusConflict,
	)
}

// AlreadyDecided covers transition attempts on finally-decided requests.
func AlreadyDecided(current string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("request has already been finally decided (current state: %s)", current),
		http.StatusConflict,
	)
}

// TerminalState covers transition attempts on a manager-rejected request.
func TerminalState(current string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("no further review is possible (current state: %s)", current),
		http.StatusConflict,
	)
}

// WrongStage covers legal actors acting at the wrong stage, e.g. a manager
// re-reviewing an already manager-approved request.
func WrongStage(current string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("action is not valid at this stage (current state: %s)", current),
		http.StatusConflict,
	)
}

// ConcurrentUpdate is returned when the conditional status update affected
// no rows: another reviewer got there first.
func ConcurrentUpdate(expected string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("request state changed concurrently (expected: %s), refresh and retry", expected),
		http.StatusConflict,
	)
}

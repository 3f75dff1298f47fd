package leaverequesterrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrOverlappingPending = apperror.New(
		apperror.CodeConflict,
		"a pending leave request already overlaps this period",
		http.StatusConflict,
	)
	ErrNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to act on this leave request",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester may perform this action",
		http.StatusForbidden,
	)
	ErrDepartmentMismatch = apperror.New(
		apperror.CodeForbidden,
		"approver and requester are not in the same department",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave request status transition",
		http.StatusConflict,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been processed",
		http.StatusConflict,
	)
	ErrTokenNotFound = apperror.New(
		apperror.CodeTokenInvalid,
		"approval link is invalid",
		http.StatusNotFound,
	)
	ErrApprovalTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"approval link has expired, ask the requester to send a new one",
		http.StatusGone,
	)
	ErrRevocationTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"revocation link has expired, the request stays approved",
		http.StatusGone,
	)
	ErrDirectoryUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"cannot verify authorization, user directory is unavailable",
		http.StatusServiceUnavailable,
	)
)

package autherrors

import (
	"net/http"

	"leaveflow/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeTokenInvalid,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeTokenInvalid,
		"invalid refresh token",
		http.StatusUnauthorized,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to this resource",
		http.StatusForbidden,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"could not generate token",
		http.StatusInternalServerError,
	)
)

package employeeerrors

import (
	"net/http"

	"github.com/aanyashri/hrmsbackend-users/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeNotFound,
		"employee is not active",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrEmployeeNumberTaken = apperror.New(
		apperror.CodeConflict,
		"employee number is already in use",
		http.StatusConflict,
	)
	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid join_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)

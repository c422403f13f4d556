package attendanceerrors

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
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"already checked in today",
		http.StatusConflict,
	)
	ErrNoCheckIn = apperror.New(
		apperror.CodeInvalidState,
		"no check-in record found for today",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"already checked out today",
		http.StatusConflict,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month or year",
		http.StatusBadRequest,
	)
)

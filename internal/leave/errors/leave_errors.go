package leaveerrors

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
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrOverlappingLeave = apperror.New(
		apperror.CodeConflict,
		"an overlapping leave request already exists",
		http.StatusConflict,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not pending",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"leave request belongs to another employee",
		http.StatusForbidden,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection reason is required",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month or year",
		http.StatusBadRequest,
	)
)

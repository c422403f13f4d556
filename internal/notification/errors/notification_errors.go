package notificationerrors

import (
	"net/http"

	"github.com/aanyashri/hrmsbackend-users/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification type",
		http.StatusBadRequest,
	)
	ErrInvalidPriority = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification priority",
		http.StatusBadRequest,
	)
)

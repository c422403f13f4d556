package holiday

import (
	"net/http"
	"strconv"

	"github.com/aanyashri/hrmsbackend-users/internal/shared/apperror"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("holiday.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("create holiday failed", zap.Int("status", httpErr.Status))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusCreated, "Holiday created successfully", resp)
}

func (h *Handler) GetAll(c *gin.Context) {
	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	resp, err := h.service.GetAll(c.Request.Context(), year)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, "Holidays retrieved successfully", resp)
}

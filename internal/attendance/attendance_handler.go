package attendance

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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

func (h *Handler) CheckIn(c *gin.Context) {
	resp, err := h.service.CheckIn(c.Request.Context(), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Checked in successfully", resp)
}

func (h *Handler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Checked out successfully", resp)
}

func (h *Handler) GetRecords(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 31)

	resp, err := h.service.GetRecords(c.Request.Context(), c.GetString("employee_id"),
		month, year, c.Query("status"), page, limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Attendance records retrieved successfully", resp)
}

func (h *Handler) GetSummary(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)

	resp, err := h.service.GetSummary(c.Request.Context(), c.GetString("employee_id"), month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Attendance summary retrieved successfully", resp)
}

func (h *Handler) GetStats(c *gin.Context) {
	year := queryInt(c, "year", 0)

	resp, err := h.service.GetStats(c.Request.Context(), c.GetString("employee_id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Attendance stats retrieved successfully", resp)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

package report

import (
	"net/http"
	"strconv"
	"time"

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
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) DailyStats(c *gin.Context) {
	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	resp, err := h.service.DailyStats(c.Request.Context(), date)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("daily stats failed", zap.Int("status", httpErr.Status))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, "Daily attendance stats retrieved successfully", resp)
}

func (h *Handler) AttendanceLog(c *gin.Context) {
	filter := LogFilter{
		EmployeeNumber: c.Query("employee"),
		Department:     c.Query("department"),
		Status:         c.Query("status"),
	}
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		filter.Date = &parsed
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.service.AttendanceLog(c.Request.Context(), filter, page, limit)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("attendance log failed", zap.Int("status", httpErr.Status))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, "Attendance log retrieved successfully", resp)
}

package leave

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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

func (h *Handler) Apply(c *gin.Context) {
	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), c.GetString("employee_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Leave request submitted successfully", resp)
}

func (h *Handler) Approve(c *gin.Context) {
	var req ApproveLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, httpErr.Status, httpErr.Message)
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), c.GetString("employee_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave request approved successfully", resp)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.Param("id"), c.GetString("employee_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave request rejected successfully", resp)
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave request cancelled successfully", resp)
}

func (h *Handler) GetMyRequests(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	resp, err := h.service.GetMyRequests(c.Request.Context(), c.GetString("employee_id"),
		c.Query("status"), month, year, page, limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave requests retrieved successfully", resp)
}

func (h *Handler) GetBalance(c *gin.Context) {
	year := queryInt(c, "year", 0)

	resp, err := h.service.GetBalance(c.Request.Context(), c.GetString("employee_id"), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave balance retrieved successfully", resp)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)

	resp, err := h.service.GetCalendar(c.Request.Context(), c.GetString("employee_id"), false, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave calendar retrieved successfully", resp)
}

func (h *Handler) GetCompanyCalendar(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)

	resp, err := h.service.GetCalendar(c.Request.Context(), "", true, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Company leave calendar retrieved successfully", resp)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	year := queryInt(c, "year", 0)

	resp, err := h.service.GetStatistics(c.Request.Context(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave statistics retrieved successfully", resp)
}

func (h *Handler) GetAllRequests(c *gin.Context) {
	month := queryInt(c, "month", 0)
	year := queryInt(c, "year", 0)
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	filter := AdminFilter{
		Status:         c.Query("status"),
		EmployeeNumber: c.Query("employee"),
		Department:     c.Query("department"),
	}

	resp, err := h.service.GetAllRequests(c.Request.Context(), filter, month, year, page, limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave requests retrieved successfully", resp)
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

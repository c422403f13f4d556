package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aanyashri/hrmsbackend-users/internal/leave"
	leaveerrors "github.com/aanyashri/hrmsbackend-users/internal/leave/errors"
)

type apiEnvelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	applyFn         func(ctx context.Context, employeeNumber string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	approveFn       func(ctx context.Context, id, approverNumber string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	rejectFn        func(ctx context.Context, id, approverNumber string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	cancelFn        func(ctx context.Context, id, employeeNumber string) (leave.LeaveResponse, error)
	getMyRequestsFn func(ctx context.Context, employeeNumber, status string, month, year, page, limit int) (leave.LeavePage, error)
	getBalanceFn    func(ctx context.Context, employeeNumber string, year int) (leave.BalanceResponse, error)
	getCalendarFn   func(ctx context.Context, employeeNumber string, companyWide bool, month, year int) (leave.CalendarResponse, error)
	getStatsFn      func(ctx context.Context, year int) (leave.StatisticsResponse, error)
	getAllFn        func(ctx context.Context, filter leave.AdminFilter, month, year, page, limit int) (leave.LeavePage, error)
}

func (f *fakeLeaveService) Apply(ctx context.Context, employeeNumber string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.applyFn(ctx, employeeNumber, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, id, approverNumber string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, id, approverNumber, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, id, approverNumber string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, id, approverNumber, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, id, employeeNumber string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, id, employeeNumber)
}
func (f *fakeLeaveService) GetMyRequests(ctx context.Context, employeeNumber, status string, month, year, page, limit int) (leave.LeavePage, error) {
	return f.getMyRequestsFn(ctx, employeeNumber, status, month, year, page, limit)
}
func (f *fakeLeaveService) GetBalance(ctx context.Context, employeeNumber string, year int) (leave.BalanceResponse, error) {
	return f.getBalanceFn(ctx, employeeNumber, year)
}
func (f *fakeLeaveService) GetCalendar(ctx context.Context, employeeNumber string, companyWide bool, month, year int) (leave.CalendarResponse, error) {
	return f.getCalendarFn(ctx, employeeNumber, companyWide, month, year)
}
func (f *fakeLeaveService) GetStatistics(ctx context.Context, year int) (leave.StatisticsResponse, error) {
	return f.getStatsFn(ctx, year)
}
func (f *fakeLeaveService) GetAllRequests(ctx context.Context, filter leave.AdminFilter, month, year, page, limit int) (leave.LeavePage, error) {
	return f.getAllFn(ctx, filter, month, year, page, limit)
}

func TestLeaveHandler_Apply(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, employeeNumber string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "EMP-000001", employeeNumber)
				assert.Equal(t, leave.TypeSick, req.LeaveType)
				return leave.LeaveResponse{
					ID:        uuid.New().String(),
					LeaveType: req.LeaveType,
					StartDate: req.StartDate,
					EndDate:   req.EndDate,
					Days:      3,
					Reason:    req.Reason,
					Status:    leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"sick","start_date":"2025-03-10","end_date":"2025-03-12","reason":"Flu"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", "EMP-000001")

		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, got.Status)
		assert.Equal(t, 3.0, got.Days)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
	})

	t.Run("negative overlap returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, employeeNumber string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrOverlappingLeave
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"annual","start_date":"2025-03-10","end_date":"2025-03-12","reason":"Trip"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", "EMP-000001")

		h.Apply(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, "an overlapping leave request already exists", env.Message)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, employeeNumber string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("db gone")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"annual","start_date":"2025-03-10","end_date":"2025-03-12","reason":"Trip"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", "EMP-000001")

		h.Apply(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, "An unexpected error occurred", env.Message)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("success with empty body", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, id, approverNumber string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, "EMP-000009", approverNumber)
				assert.Empty(t, req.Notes)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("employee_id", "EMP-000009")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("success with notes", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, id, approverNumber string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "Enjoy your break", req.Notes)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved, Notes: req.Notes}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"notes":"Enjoy your break"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("employee_id", "EMP-000009")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
	})

	t.Run("negative not pending", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, id, approverNumber string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotPending
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", "EMP-000009")

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
		assert.Equal(t, "leave request is not pending", env.Message)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, id, approverNumber string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/approve", nil)
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", "EMP-000009")

		h.Approve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		reason := "team is short-staffed that week"
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, id, approverNumber string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, reason, req.RejectionReason)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected, RejectionReason: reason}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"rejection_reason":"` + reason + `"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("employee_id", "EMP-000009")

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, got.Status)
		assert.Equal(t, reason, got.RejectionReason)
	})

	t.Run("negative missing reason", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+uuid.New().String()+"/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, id, employeeNumber string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, "EMP-000001", employeeNumber)
				return leave.LeaveResponse{ID: id, Status: leave.StatusCancelled}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/cancel", nil)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("employee_id", "EMP-000001")

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
	})

	t.Run("negative not owner", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, id, employeeNumber string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotOwner
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/"+uuid.New().String()+"/cancel", nil)
		c.Params = []gin.Param{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", "EMP-000002")

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Success)
	})
}

func TestLeaveHandler_GetMyRequests(t *testing.T) {
	t.Run("passes query filters through", func(t *testing.T) {
		svc := &fakeLeaveService{
			getMyRequestsFn: func(ctx context.Context, employeeNumber, status string, month, year, page, limit int) (leave.LeavePage, error) {
				assert.Equal(t, "EMP-000001", employeeNumber)
				assert.Equal(t, "approved", status)
				assert.Equal(t, 3, month)
				assert.Equal(t, 2025, year)
				assert.Equal(t, 2, page)
				assert.Equal(t, 5, limit)
				return leave.LeavePage{Requests: []leave.LeaveResponse{{Status: leave.StatusApproved}}}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?status=approved&month=3&year=2025&page=2&limit=5", nil)
		c.Set("employee_id", "EMP-000001")

		h.GetMyRequests(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
	})

	t.Run("defaults pagination when absent", func(t *testing.T) {
		svc := &fakeLeaveService{
			getMyRequestsFn: func(ctx context.Context, employeeNumber, status string, month, year, page, limit int) (leave.LeavePage, error) {
				assert.Equal(t, 1, page)
				assert.Equal(t, 10, limit)
				return leave.LeavePage{}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)
		c.Set("employee_id", "EMP-000001")

		h.GetMyRequests(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_GetBalance(t *testing.T) {
	svc := &fakeLeaveService{
		getBalanceFn: func(ctx context.Context, employeeNumber string, year int) (leave.BalanceResponse, error) {
			assert.Equal(t, 2025, year)
			return leave.BalanceResponse{
				Year: 2025,
				Types: map[string]leave.TypeBalance{
					leave.TypeSick: {Total: 12, Used: 3, Remaining: 9},
				},
				Overall: leave.TypeBalance{Total: 24, Used: 3, Remaining: 21},
			}, nil
		},
	}
	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves/balance?year=2025", nil)
	c.Set("employee_id", "EMP-000001")

	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Success)
	var got leave.BalanceResponse
	err := json.Unmarshal(env.Data, &got)
	assert.NoError(t, err)
	assert.Equal(t, 9.0, got.Types[leave.TypeSick].Remaining)
	assert.Equal(t, 21.0, got.Overall.Remaining)
}

func TestLeaveHandler_GetAllRequests(t *testing.T) {
	svc := &fakeLeaveService{
		getAllFn: func(ctx context.Context, filter leave.AdminFilter, month, year, page, limit int) (leave.LeavePage, error) {
			assert.Equal(t, "pending", filter.Status)
			assert.Equal(t, "Engineering", filter.Department)
			return leave.LeavePage{Requests: []leave.LeaveResponse{{Status: leave.StatusPending}}}, nil
		},
	}
	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves/all?status=pending&department=Engineering", nil)
	c.Set("employee_id", "EMP-000009")

	h.GetAllRequests(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Success)
}

package leave

type ApplyLeaveRequest struct {
	LeaveType     string `json:"leave_type" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
	IsHalfDay     bool   `json:"is_half_day"`
	HalfDayPeriod string `json:"half_day_period" binding:"omitempty,oneof=morning afternoon"`
}

type ApproveLeaveRequest struct {
	Notes string `json:"notes"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	LeaveType       string           `json:"leave_type"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	Days            float64          `json:"days"`
	Reason          string           `json:"reason"`
	IsHalfDay       bool             `json:"is_half_day"`
	HalfDayPeriod   string           `json:"half_day_period,omitempty"`
	Status          string           `json:"status"`
	AppliedAt       string           `json:"applied_at"`
	ApprovedBy      *string          `json:"approved_by,omitempty"`
	ApprovedAt      *string          `json:"approved_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Employee        *LeaveEmployee   `json:"employee,omitempty"`
}

// LeaveEmployee is the directory projection attached to admin listings.
type LeaveEmployee struct {
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Department     string `json:"department"`
}

type LeavePage struct {
	Requests   []LeaveResponse `json:"requests"`
	Pagination any             `json:"pagination"`
}

type TypeBalance struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

type BalanceResponse struct {
	Year    int                    `json:"year"`
	Types   map[string]TypeBalance `json:"types"`
	Overall TypeBalance            `json:"overall"`
}

type CalendarEntry struct {
	Date           string `json:"date"`
	LeaveType      string `json:"leave_type"`
	IsHalfDay      bool   `json:"is_half_day"`
	HalfDayPeriod  string `json:"half_day_period,omitempty"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	FullName       string `json:"full_name,omitempty"`
}

type CalendarResponse struct {
	Month   int             `json:"month"`
	Year    int             `json:"year"`
	Entries []CalendarEntry `json:"entries"`
}

type StatisticsResponse struct {
	Year                int                `json:"year"`
	TotalRequests       int                `json:"totalRequests"`
	PendingRequests     int                `json:"pendingRequests"`
	ApprovedRequests    int                `json:"approvedRequests"`
	RejectedRequests    int                `json:"rejectedRequests"`
	CancelledRequests   int                `json:"cancelledRequests"`
	ApprovedDaysByType  map[string]float64 `json:"approvedDaysByType"`
	MonthlyApprovedDays []float64          `json:"monthlyApprovedDays"`
}

package attendance

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in,omitempty"`
	CheckOut     *string `json:"check_out,omitempty"`
	WorkingHours float64 `json:"working_hours"`
	Overtime     float64 `json:"overtime"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
}

type RecordsPage struct {
	Records    []RecordResponse `json:"records"`
	Pagination any              `json:"pagination"`
}

type MonthlySummary struct {
	Month                int     `json:"month"`
	Year                 int     `json:"year"`
	TotalDays            int     `json:"totalDays"`
	PresentDays          int     `json:"presentDays"`
	HalfDays             int     `json:"halfDays"`
	LeaveDays            int     `json:"leaveDays"`
	AbsentDays           int     `json:"absentDays"`
	TotalWorkingHours    float64 `json:"totalWorkingHours"`
	TotalOvertime        float64 `json:"totalOvertime"`
	AttendancePercentage int     `json:"attendancePercentage"`
}

type MonthlyBreakdown struct {
	Month        int     `json:"month"`
	MonthName    string  `json:"monthName"`
	TotalDays    int     `json:"totalDays"`
	PresentDays  int     `json:"presentDays"`
	AbsentDays   int     `json:"absentDays"`
	LeaveDays    int     `json:"leaveDays"`
	WorkingHours float64 `json:"workingHours"`
}

type YearlyStats struct {
	Year              int                `json:"year"`
	TotalWorkingDays  int                `json:"totalWorkingDays"`
	TotalPresentDays  int                `json:"totalPresentDays"`
	TotalAbsentDays   int                `json:"totalAbsentDays"`
	TotalLeaveDays    int                `json:"totalLeaveDays"`
	TotalWorkingHours float64            `json:"totalWorkingHours"`
	TotalOvertime     float64            `json:"totalOvertime"`
	MonthlyBreakdown  []MonthlyBreakdown `json:"monthlyBreakdown"`
}

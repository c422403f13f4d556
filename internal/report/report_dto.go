package report

type DailyCompanyStats struct {
	Date              string  `json:"date"`
	TotalEmployees    int64   `json:"totalEmployees"`
	PresentCount      int64   `json:"presentCount"`
	HalfDayCount      int64   `json:"halfDayCount"`
	OnLeaveCount      int64   `json:"onLeaveCount"`
	AbsentCount       int64   `json:"absentCount"`
	NotMarkedCount    int64   `json:"notMarkedCount"`
	PresentPercentage float64 `json:"presentPercentage"`
	LeavePercentage   float64 `json:"leavePercentage"`
}

type AttendanceLogEntry struct {
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Department     string  `json:"department"`
	Date           string  `json:"date"`
	CheckIn        *string `json:"check_in,omitempty"`
	CheckOut       *string `json:"check_out,omitempty"`
	WorkingHours   float64 `json:"working_hours"`
	Overtime       float64 `json:"overtime"`
	Status         string  `json:"status"`
}

type AttendanceLogPage struct {
	Entries    []AttendanceLogEntry `json:"entries"`
	Pagination any                  `json:"pagination"`
}

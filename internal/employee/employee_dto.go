package employee

type CreateEmployeeRequest struct {
	FullName       string  `json:"full_name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"phone"`
	Role           string  `json:"role"`
	Department     string  `json:"department"`
	Designation    string  `json:"designation"`
	JoinDate       string  `json:"join_date" binding:"required"`
	EmployeeNumber string  `json:"employee_number"`
}

type UpdateEmployeeRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       *string `json:"phone"`
	Role        string  `json:"role" binding:"required"`
	Department  string  `json:"department" binding:"required"`
	Designation string  `json:"designation"`
	JoinDate    string  `json:"join_date" binding:"required"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	Role           string  `json:"role"`
	Department     string  `json:"department"`
	Designation    string  `json:"designation,omitempty"`
	JoinDate       string  `json:"join_date"`
	IsActive       bool    `json:"is_active"`
}

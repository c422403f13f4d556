package leave

import (
	"time"

	"github.com/aanyashri/hrmsbackend-users/internal/employee"

	"github.com/google/uuid"
)

const (
	TypeSick      = "sick"
	TypeCasual    = "casual"
	TypeAnnual    = "annual"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
	TypeEmergency = "emergency"
	TypePersonal  = "personal"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	HalfDayMorning   = "morning"
	HalfDayAfternoon = "afternoon"
)

var validTypes = map[string]struct{}{
	TypeSick:      {},
	TypeCasual:    {},
	TypeAnnual:    {},
	TypeMaternity: {},
	TypePaternity: {},
	TypeEmergency: {},
	TypePersonal:  {},
}

func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

// LeaveRequest is the workflow aggregate. Pending is the only state that
// can transition; approved, rejected and cancelled are terminal.
type LeaveRequest struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveType       string    `gorm:"type:varchar(20);not null"`
	StartDate       time.Time `gorm:"type:date;not null;index"`
	EndDate         time.Time `gorm:"type:date;not null"`
	Days            float64   `gorm:"not null"`
	Reason          string    `gorm:"type:text;not null"`
	IsHalfDay       bool      `gorm:"not null;default:false"`
	HalfDayPeriod   string    `gorm:"type:varchar(10)"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	AppliedAt       time.Time `gorm:"not null"`
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	RejectionReason string `gorm:"type:text"`
	Notes           string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

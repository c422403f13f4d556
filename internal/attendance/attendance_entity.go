package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half-day"
	StatusLeave   = "leave"
	StatusHoliday = "holiday"
)

// Record is one employee-day in the ledger. (employee_id, date) is the
// natural key; the composite unique index enforces it.
type Record struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date"`
	Date         time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date;index"`
	CheckIn      *time.Time `gorm:"type:timestamptz"`
	CheckOut     *time.Time `gorm:"type:timestamptz"`
	WorkingHours float64    `gorm:"not null;default:0"`
	Overtime     float64    `gorm:"not null;default:0"`
	Status       string     `gorm:"type:varchar(20);not null;default:'absent';index"`
	Notes        string     `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Record) TableName() string {
	return "attendance_records"
}

package report

import (
	"context"
	"time"

	"github.com/aanyashri/hrmsbackend-users/internal/attendance"
	"github.com/aanyashri/hrmsbackend-users/internal/employee"

	"gorm.io/gorm"
)

// LogFilter narrows the admin attendance log.
type LogFilter struct {
	Date           *time.Time
	EmployeeNumber string
	Department     string
	Status         string
}

// logRow is the joined projection scanned from the log query.
type logRow struct {
	EmployeeNumber string
	Name           string
	Department     string
	Date           time.Time
	CheckIn        *time.Time
	CheckOut       *time.Time
	WorkingHours   float64
	Overtime       float64
	Status         string
}

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	CountActiveEmployees(ctx context.Context) (int64, error)
	CountAttendanceByStatus(ctx context.Context, date time.Time) (map[string]int64, error)
	AttendanceLog(ctx context.Context, filter LogFilter, limit, offset int) ([]logRow, error)
	CountAttendanceLog(ctx context.Context, filter LogFilter) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountActiveEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountAttendanceByStatus(ctx context.Context, date time.Time) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&attendance.Record{}).
		Select("status, COUNT(*) AS count").
		Where("date = ?", date.Format("2006-01-02")).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) AttendanceLog(ctx context.Context, filter LogFilter, limit, offset int) ([]logRow, error) {
	var rows []logRow
	err := r.logScoped(ctx, filter).
		Select(`employees.employee_number,
			users.name,
			employees.department,
			attendance_records.date,
			attendance_records.check_in,
			attendance_records.check_out,
			attendance_records.working_hours,
			attendance_records.overtime,
			attendance_records.status`).
		Order("attendance_records.date DESC, employees.employee_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountAttendanceLog(ctx context.Context, filter LogFilter) (int64, error) {
	var count int64
	err := r.logScoped(ctx, filter).Count(&count).Error
	return count, err
}

func (r *repository) logScoped(ctx context.Context, filter LogFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&attendance.Record{}).
		Joins("JOIN employees ON employees.id = attendance_records.employee_id").
		Joins("JOIN users ON users.id = employees.user_id")

	if filter.Date != nil {
		db = db.Where("attendance_records.date = ?", filter.Date.Format("2006-01-02"))
	}
	if filter.EmployeeNumber != "" {
		db = db.Where("employees.employee_number = ?", filter.EmployeeNumber)
	}
	if filter.Department != "" {
		db = db.Where("employees.department = ?", filter.Department)
	}
	if filter.Status != "" {
		db = db.Where("attendance_records.status = ?", filter.Status)
	}
	return db
}

package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows an employee's own request listing.
type ListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

// AdminFilter narrows the company-wide listing.
type AdminFilter struct {
	Status         string
	EmployeeNumber string
	Department     string
	From           *time.Time
	To             *time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	Update(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string, filter ListFilter, limit, offset int) ([]LeaveRequest, error)
	CountByEmployee(ctx context.Context, employeeID string, filter ListFilter) (int64, error)
	FindApprovedInYear(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error)
	FindApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
	FindByYear(ctx context.Context, year int) ([]LeaveRequest, error)
	FindAll(ctx context.Context, filter AdminFilter, limit, offset int) ([]LeaveRequest, error)
	CountAll(ctx context.Context, filter AdminFilter) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm handle onto the caller's transaction connection,
// so every statement issued through the returned repository commits or rolls
// back with it.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(lr).Error
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(lr).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.User").
		First(&lr, "id = ?", id).Error
	return &lr, err
}

// FindOverlapping returns pending or approved requests whose inclusive date
// range touches [start, end].
func (r *repository) FindOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end.Format("2006-01-02"), start.Format("2006-01-02")).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, filter ListFilter, limit, offset int) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.scoped(ctx, employeeID, filter).
		Order("applied_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByEmployee(ctx context.Context, employeeID string, filter ListFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, employeeID, filter).Count(&count).Error
	return count, err
}

func (r *repository) FindApprovedInYear(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date >= ? AND start_date <= ?",
			yearStart(year).Format("2006-01-02"), yearEnd(year).Format("2006-01-02")).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

// FindApprovedOverlapping returns approved requests touching [from, to].
// Empty employeeID means the whole company, with the directory projection
// preloaded for the calendar.
func (r *repository) FindApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.User").
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", to.Format("2006-01-02"), from.Format("2006-01-02"))
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}

	var rows []LeaveRequest
	err := db.Order("start_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByYear(ctx context.Context, year int) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("start_date >= ? AND start_date <= ?",
			yearStart(year).Format("2006-01-02"), yearEnd(year).Format("2006-01-02")).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context, filter AdminFilter, limit, offset int) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.adminScoped(ctx, filter).
		Preload("Employee").
		Preload("Employee.User").
		Order("leave_requests.applied_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountAll(ctx context.Context, filter AdminFilter) (int64, error) {
	var count int64
	err := r.adminScoped(ctx, filter).Count(&count).Error
	return count, err
}

func (r *repository) scoped(ctx context.Context, employeeID string, filter ListFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID)

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != nil && filter.To != nil {
		db = db.Where("start_date <= ? AND end_date >= ?",
			filter.To.Format("2006-01-02"), filter.From.Format("2006-01-02"))
	}
	return db
}

func (r *repository) adminScoped(ctx context.Context, filter AdminFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&LeaveRequest{})

	if filter.EmployeeNumber != "" || filter.Department != "" {
		db = db.Joins("JOIN employees ON employees.id = leave_requests.employee_id")
		if filter.EmployeeNumber != "" {
			db = db.Where("employees.employee_number = ?", filter.EmployeeNumber)
		}
		if filter.Department != "" {
			db = db.Where("employees.department = ?", filter.Department)
		}
	}
	if filter.Status != "" {
		db = db.Where("leave_requests.status = ?", filter.Status)
	}
	if filter.From != nil && filter.To != nil {
		db = db.Where("leave_requests.start_date <= ? AND leave_requests.end_date >= ?",
			filter.To.Format("2006-01-02"), filter.From.Format("2006-01-02"))
	}
	return db
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordFilter narrows paginated ledger reads.
type RecordFilter struct {
	From   *time.Time
	To     *time.Time
	Status string
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	FindByEmployee(ctx context.Context, employeeID string, filter RecordFilter, limit, offset int) ([]Record, error)
	CountByEmployee(ctx context.Context, employeeID string, filter RecordFilter) (int64, error)
	FindByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	UpsertLeaveDay(ctx context.Context, employeeID string, date time.Time, note string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm handle onto the caller's transaction connection,
// so the approval backfill executes inside the approver's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Update(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, filter RecordFilter, limit, offset int) ([]Record, error) {
	var rows []Record
	err := r.scoped(ctx, employeeID, filter).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByEmployee(ctx context.Context, employeeID string, filter RecordFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, employeeID, filter).Count(&count).Error
	return count, err
}

func (r *repository) FindByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// UpsertLeaveDay forces one ledger day to leave status, overwriting whatever
// check-in derived status was there, and appends the approval note.
func (r *repository) UpsertLeaveDay(ctx context.Context, employeeID string, date time.Time, note string) error {
	existing, err := r.FindByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		rec := &Record{
			ID:         uuid.New(),
			EmployeeID: uuid.MustParse(employeeID),
			Date:       date,
			Status:     StatusLeave,
			Notes:      note,
		}
		return r.Create(ctx, rec)
	}

	existing.Status = StatusLeave
	if existing.Notes == "" {
		existing.Notes = note
	} else {
		existing.Notes = existing.Notes + "; " + note
	}
	return r.Update(ctx, existing)
}

func (r *repository) scoped(ctx context.Context, employeeID string, filter RecordFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("employee_id = ?", employeeID)

	if filter.From != nil && filter.To != nil {
		db = db.Where("date BETWEEN ? AND ?", filter.From.Format("2006-01-02"), filter.To.Format("2006-01-02"))
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	return db
}

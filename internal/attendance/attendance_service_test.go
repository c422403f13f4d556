package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	attendanceerrors "github.com/aanyashri/hrmsbackend-users/internal/attendance/errors"
	"github.com/aanyashri/hrmsbackend-users/internal/employee"
)

type fakeRepo struct {
	withTxFn                func(tx *sql.Tx) Repository
	createFn                func(ctx context.Context, rec *Record) error
	updateFn                func(ctx context.Context, rec *Record) error
	findByEmployeeAndDateFn func(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	findByEmployeeFn        func(ctx context.Context, employeeID string, filter RecordFilter, limit, offset int) ([]Record, error)
	countByEmployeeFn       func(ctx context.Context, employeeID string, filter RecordFilter) (int64, error)
	findBetweenFn           func(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	upsertLeaveDayFn        func(ctx context.Context, employeeID string, date time.Time, note string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, rec *Record) error {
	return f.createFn(ctx, rec)
}
func (f *fakeRepo) Update(ctx context.Context, rec *Record) error {
	return f.updateFn(ctx, rec)
}
func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
	return f.findByEmployeeAndDateFn(ctx, employeeID, date)
}
func (f *fakeRepo) FindByEmployee(ctx context.Context, employeeID string, filter RecordFilter, limit, offset int) ([]Record, error) {
	return f.findByEmployeeFn(ctx, employeeID, filter, limit, offset)
}
func (f *fakeRepo) CountByEmployee(ctx context.Context, employeeID string, filter RecordFilter) (int64, error) {
	return f.countByEmployeeFn(ctx, employeeID, filter)
}
func (f *fakeRepo) FindByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	return f.findBetweenFn(ctx, employeeID, from, to)
}
func (f *fakeRepo) UpsertLeaveDay(ctx context.Context, employeeID string, date time.Time, note string) error {
	return f.upsertLeaveDayFn(ctx, employeeID, date, note)
}

type fakeEmployeeRepo struct {
	findActiveByNumberFn func(ctx context.Context, employeeNumber string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository                  { return f }
func (f *fakeEmployeeRepo) CreateUser(ctx context.Context, u *employee.User) error { return nil }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindByNumber(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	return f.findActiveByNumberFn(ctx, employeeNumber)
}
func (f *fakeEmployeeRepo) FindActiveByNumber(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	return f.findActiveByNumberFn(ctx, employeeNumber)
}
func (f *fakeEmployeeRepo) Contact(ctx context.Context, employeeID string) (*employee.Contact, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) UpdateUser(ctx context.Context, u *employee.User) error { return nil }
func (f *fakeEmployeeRepo) Deactivate(ctx context.Context, id string) error        { return nil }

func activeEmployee(id uuid.UUID) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		findActiveByNumberFn: func(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
			return &employee.Employee{ID: id, EmployeeNumber: employeeNumber, IsActive: true}, nil
		},
	}
}

func TestService_CheckInAndCheckOut(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New()
	ctx := context.Background()

	var saved Record
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, rec *Record) error { saved = *rec; return nil }
	repo.updateFn = func(ctx context.Context, rec *Record) error { saved = *rec; return nil }
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		return &saved, nil
	}

	svc := NewService(db, repo, activeEmployee(employeeID)).(*service)

	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return checkIn }

	mock.ExpectBegin()
	mock.ExpectCommit()
	inResp, err := svc.CheckIn(ctx, "EMP001")
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, inResp.Status)
	assert.NotNil(t, inResp.CheckIn)

	// 9h15m on the clock: 9.25 hours worked, 1.25 overtime.
	svc.now = func() time.Time { return checkIn.Add(9*time.Hour + 15*time.Minute) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	outResp, err := svc.CheckOut(ctx, "EMP001")
	assert.NoError(t, err)
	assert.Equal(t, 9.25, outResp.WorkingHours)
	assert.Equal(t, 1.25, outResp.Overtime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_Duplicate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	now := time.Now()
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
		return &Record{ID: uuid.New(), CheckIn: &now}, nil
	}

	svc := NewService(db, repo, activeEmployee(uuid.New()))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckIn(context.Background(), "EMP001")
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_WithoutCheckIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, activeEmployee(uuid.New()))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckOut(context.Background(), "EMP001")
	assert.ErrorIs(t, err, attendanceerrors.ErrNoCheckIn)
}

func TestService_CheckIn_UnknownEmployee(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	employeeRepo := &fakeEmployeeRepo{
		findActiveByNumberFn: func(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, &fakeRepo{}, employeeRepo)

	_, err := svc.CheckIn(context.Background(), "EMP999")
	assert.ErrorIs(t, err, attendanceerrors.ErrEmployeeNotFound)
}

func TestService_GetSummary(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New()

	t.Run("counts statuses and computes percentage", func(t *testing.T) {
		repo := &fakeRepo{}
		repo.findBetweenFn = func(ctx context.Context, id string, from, to time.Time) ([]Record, error) {
			return []Record{
				{Status: StatusPresent, WorkingHours: 8, Overtime: 0},
				{Status: StatusPresent, WorkingHours: 9.5, Overtime: 1.5},
				{Status: StatusLeave},
				{Status: StatusAbsent},
			}, nil
		}

		svc := NewService(db, repo, activeEmployee(employeeID))

		summary, err := svc.GetSummary(context.Background(), "EMP001", 3, 2025)
		assert.NoError(t, err)
		assert.Equal(t, 4, summary.TotalDays)
		assert.Equal(t, 2, summary.PresentDays)
		assert.Equal(t, 1, summary.LeaveDays)
		assert.Equal(t, 1, summary.AbsentDays)
		assert.Equal(t, 17.5, summary.TotalWorkingHours)
		assert.Equal(t, 50, summary.AttendancePercentage)
	})

	t.Run("no records yields zero percentage", func(t *testing.T) {
		repo := &fakeRepo{}
		repo.findBetweenFn = func(ctx context.Context, id string, from, to time.Time) ([]Record, error) {
			return nil, nil
		}

		svc := NewService(db, repo, activeEmployee(employeeID))

		summary, err := svc.GetSummary(context.Background(), "EMP001", 3, 2025)
		assert.NoError(t, err)
		assert.Equal(t, 0, summary.TotalDays)
		assert.Equal(t, 0, summary.AttendancePercentage)
	})

	t.Run("invalid month rejected", func(t *testing.T) {
		svc := NewService(db, &fakeRepo{}, activeEmployee(employeeID))

		_, err := svc.GetSummary(context.Background(), "EMP001", 13, 2025)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidPeriod)
	})
}

func TestService_GetStats_MonthlyBreakdown(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findBetweenFn = func(ctx context.Context, id string, from, to time.Time) ([]Record, error) {
		return []Record{
			{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Status: StatusPresent, WorkingHours: 8},
			{Date: time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC), Status: StatusLeave},
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Status: StatusPresent, WorkingHours: 10, Overtime: 2},
		}, nil
	}

	svc := NewService(db, repo, activeEmployee(uuid.New()))

	stats, err := svc.GetStats(context.Background(), "EMP001", 2025)
	assert.NoError(t, err)
	assert.Equal(t, 2025, stats.Year)
	assert.Len(t, stats.MonthlyBreakdown, 12)
	assert.Equal(t, 2, stats.MonthlyBreakdown[0].TotalDays)
	assert.Equal(t, 1, stats.MonthlyBreakdown[0].PresentDays)
	assert.Equal(t, 1, stats.MonthlyBreakdown[0].LeaveDays)
	assert.Equal(t, "June", stats.MonthlyBreakdown[5].MonthName)
	assert.Equal(t, 2, stats.TotalPresentDays)
	assert.Equal(t, 18.0, stats.TotalWorkingHours)
	assert.Equal(t, 2.0, stats.TotalOvertime)
}

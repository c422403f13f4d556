package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	attendanceerrors "github.com/aanyashri/hrmsbackend-users/internal/attendance/errors"
	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/contextutil"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const standardWorkDayHours = 8.0

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeNumber string) (RecordResponse, error)
	CheckOut(ctx context.Context, employeeNumber string) (RecordResponse, error)
	GetRecords(ctx context.Context, employeeNumber string, month, year int, status string, page, limit int) (RecordsPage, error)
	GetSummary(ctx context.Context, employeeNumber string, month, year int) (MonthlySummary, error)
	GetStats(ctx context.Context, employeeNumber string, year int) (YearlyStats, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		now:          time.Now,
		logger:       l,
	}
}

func (s *service) CheckIn(ctx context.Context, employeeNumber string) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return RecordResponse{}, err
	}

	now := s.now()
	today := dateOnly(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.Error(err))
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByEmployeeAndDate(ctx, empl.ID.String(), today)
	switch {
	case err == nil:
		if rec.CheckIn != nil {
			return RecordResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		rec.CheckIn = &now
		rec.Status = StatusPresent
		if err := qtx.Update(ctx, rec); err != nil {
			s.logger.Error("check-in update failed", zap.Error(err))
			return RecordResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = &Record{
			ID:         uuid.New(),
			EmployeeID: empl.ID,
			Date:       today,
			CheckIn:    &now,
			Status:     StatusPresent,
		}
		if err := qtx.Create(ctx, rec); err != nil {
			s.logger.Error("check-in create failed", zap.Error(err))
			return RecordResponse{}, err
		}
	default:
		return RecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.Error(err))
		return RecordResponse{}, err
	}

	s.logger.Info("check-in success",
		zap.String("request_id", rid),
		zap.String("employee_number", employeeNumber),
		zap.Time("check_in", now),
	)
	return mapRecordToResponse(*rec), nil
}

func (s *service) CheckOut(ctx context.Context, employeeNumber string) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return RecordResponse{}, err
	}

	now := s.now()
	today := dateOnly(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-out begin tx failed", zap.Error(err))
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByEmployeeAndDate(ctx, empl.ID.String(), today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, attendanceerrors.ErrNoCheckIn
		}
		return RecordResponse{}, err
	}
	if rec.CheckIn == nil {
		return RecordResponse{}, attendanceerrors.ErrNoCheckIn
	}
	if rec.CheckOut != nil {
		return RecordResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	hours := now.Sub(*rec.CheckIn).Hours()
	rec.CheckOut = &now
	rec.WorkingHours = round2(hours)
	rec.Overtime = round2(math.Max(0, hours-standardWorkDayHours))

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("check-out update failed", zap.Error(err))
		return RecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-out commit failed", zap.Error(err))
		return RecordResponse{}, err
	}

	s.logger.Info("check-out success",
		zap.String("request_id", rid),
		zap.String("employee_number", employeeNumber),
		zap.Float64("working_hours", rec.WorkingHours),
		zap.Float64("overtime", rec.Overtime),
	)
	return mapRecordToResponse(*rec), nil
}

func (s *service) GetRecords(ctx context.Context, employeeNumber string, month, year int, status string, page, limit int) (RecordsPage, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return RecordsPage{}, err
	}

	filter := RecordFilter{Status: status}
	if month != 0 || year != 0 {
		from, to, err := monthBounds(month, year)
		if err != nil {
			return RecordsPage{}, err
		}
		filter.From = &from
		filter.To = &to
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 31
	}
	offset := (page - 1) * limit

	rows, err := s.repo.FindByEmployee(ctx, empl.ID.String(), filter, limit, offset)
	if err != nil {
		s.logger.Error("get attendance records failed", zap.Error(err))
		return RecordsPage{}, err
	}
	total, err := s.repo.CountByEmployee(ctx, empl.ID.String(), filter)
	if err != nil {
		s.logger.Error("count attendance records failed", zap.Error(err))
		return RecordsPage{}, err
	}

	records := make([]RecordResponse, len(rows))
	for i, rec := range rows {
		records[i] = mapRecordToResponse(rec)
	}

	return RecordsPage{
		Records:    records,
		Pagination: response.NewPagination(total, page, limit),
	}, nil
}

func (s *service) GetSummary(ctx context.Context, employeeNumber string, month, year int) (MonthlySummary, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return MonthlySummary{}, err
	}

	if month == 0 && year == 0 {
		now := s.now()
		month, year = int(now.Month()), now.Year()
	}
	from, to, err := monthBounds(month, year)
	if err != nil {
		return MonthlySummary{}, err
	}

	rows, err := s.repo.FindByEmployeeBetween(ctx, empl.ID.String(), from, to)
	if err != nil {
		s.logger.Error("get attendance summary failed", zap.Error(err))
		return MonthlySummary{}, err
	}

	summary := MonthlySummary{Month: month, Year: year, TotalDays: len(rows)}
	for _, rec := range rows {
		switch rec.Status {
		case StatusPresent:
			summary.PresentDays++
		case StatusHalfDay:
			summary.HalfDays++
		case StatusLeave:
			summary.LeaveDays++
		case StatusAbsent:
			summary.AbsentDays++
		}
		summary.TotalWorkingHours += rec.WorkingHours
		summary.TotalOvertime += rec.Overtime
	}
	summary.TotalWorkingHours = round2(summary.TotalWorkingHours)
	summary.TotalOvertime = round2(summary.TotalOvertime)
	if summary.TotalDays > 0 {
		summary.AttendancePercentage = int(math.Round(float64(summary.PresentDays) / float64(summary.TotalDays) * 100))
	}

	return summary, nil
}

func (s *service) GetStats(ctx context.Context, employeeNumber string, year int) (YearlyStats, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return YearlyStats{}, err
	}

	if year == 0 {
		year = s.now().Year()
	}
	if year < 2000 || year > 2100 {
		return YearlyStats{}, attendanceerrors.ErrInvalidPeriod
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	rows, err := s.repo.FindByEmployeeBetween(ctx, empl.ID.String(), from, to)
	if err != nil {
		s.logger.Error("get attendance stats failed", zap.Error(err))
		return YearlyStats{}, err
	}

	stats := YearlyStats{Year: year, MonthlyBreakdown: make([]MonthlyBreakdown, 12)}
	for m := 1; m <= 12; m++ {
		stats.MonthlyBreakdown[m-1] = MonthlyBreakdown{
			Month:     m,
			MonthName: time.Month(m).String(),
		}
	}

	for _, rec := range rows {
		m := int(rec.Date.Month())
		bd := &stats.MonthlyBreakdown[m-1]
		bd.TotalDays++
		bd.WorkingHours += rec.WorkingHours
		switch rec.Status {
		case StatusPresent:
			bd.PresentDays++
			stats.TotalPresentDays++
		case StatusAbsent:
			bd.AbsentDays++
			stats.TotalAbsentDays++
		case StatusLeave:
			bd.LeaveDays++
			stats.TotalLeaveDays++
		}
		stats.TotalWorkingDays++
		stats.TotalWorkingHours += rec.WorkingHours
		stats.TotalOvertime += rec.Overtime
	}

	stats.TotalWorkingHours = round2(stats.TotalWorkingHours)
	stats.TotalOvertime = round2(stats.TotalOvertime)
	for i := range stats.MonthlyBreakdown {
		stats.MonthlyBreakdown[i].WorkingHours = round2(stats.MonthlyBreakdown[i].WorkingHours)
	}

	return stats, nil
}

func (s *service) resolveEmployee(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	empl, err := s.employeeRepo.FindActiveByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return empl, nil
}

func monthBounds(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidPeriod
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mapRecordToResponse(rec Record) RecordResponse {
	resp := RecordResponse{
		ID:           rec.ID.String(),
		EmployeeID:   rec.EmployeeID.String(),
		Date:         rec.Date.Format("2006-01-02"),
		WorkingHours: rec.WorkingHours,
		Overtime:     rec.Overtime,
		Status:       rec.Status,
		Notes:        rec.Notes,
	}
	if rec.CheckIn != nil {
		in := rec.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &in
	}
	if rec.CheckOut != nil {
		out := rec.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}

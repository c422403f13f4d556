package report

import (
	"context"
	"math"
	"time"

	"github.com/aanyashri/hrmsbackend-users/internal/attendance"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/response"

	"go.uber.org/zap"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	DailyStats(ctx context.Context, date time.Time) (DailyCompanyStats, error)
	AttendanceLog(ctx context.Context, filter LogFilter, page, limit int) (AttendanceLogPage, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func (s *service) DailyStats(ctx context.Context, date time.Time) (DailyCompanyStats, error) {
	if date.IsZero() {
		now := s.now()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	total, err := s.repo.CountActiveEmployees(ctx)
	if err != nil {
		s.logger.Error("daily stats employee count failed", zap.Error(err))
		return DailyCompanyStats{}, err
	}

	counts, err := s.repo.CountAttendanceByStatus(ctx, date)
	if err != nil {
		s.logger.Error("daily stats attendance counts failed", zap.Error(err))
		return DailyCompanyStats{}, err
	}

	stats := DailyCompanyStats{
		Date:           date.Format("2006-01-02"),
		TotalEmployees: total,
		PresentCount:   counts[attendance.StatusPresent],
		HalfDayCount:   counts[attendance.StatusHalfDay],
		OnLeaveCount:   counts[attendance.StatusLeave],
		AbsentCount:    counts[attendance.StatusAbsent],
	}

	marked := stats.PresentCount + stats.HalfDayCount + stats.OnLeaveCount + stats.AbsentCount
	if remaining := total - marked; remaining > 0 {
		stats.NotMarkedCount = remaining
	}

	// Zero employees yields zero percentages, never a division error.
	if total > 0 {
		stats.PresentPercentage = round2(float64(stats.PresentCount) / float64(total) * 100)
		stats.LeavePercentage = round2(float64(stats.OnLeaveCount) / float64(total) * 100)
	}
	return stats, nil
}

func (s *service) AttendanceLog(ctx context.Context, filter LogFilter, page, limit int) (AttendanceLogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	rows, err := s.repo.AttendanceLog(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("attendance log query failed", zap.Error(err))
		return AttendanceLogPage{}, err
	}
	total, err := s.repo.CountAttendanceLog(ctx, filter)
	if err != nil {
		return AttendanceLogPage{}, err
	}

	entries := make([]AttendanceLogEntry, len(rows))
	for i, row := range rows {
		entry := AttendanceLogEntry{
			EmployeeNumber: row.EmployeeNumber,
			FullName:       row.Name,
			Department:     row.Department,
			Date:           row.Date.Format("2006-01-02"),
			WorkingHours:   row.WorkingHours,
			Overtime:       row.Overtime,
			Status:         row.Status,
		}
		if row.CheckIn != nil {
			in := row.CheckIn.Format(time.RFC3339)
			entry.CheckIn = &in
		}
		if row.CheckOut != nil {
			out := row.CheckOut.Format(time.RFC3339)
			entry.CheckOut = &out
		}
		entries[i] = entry
	}

	return AttendanceLogPage{
		Entries:    entries,
		Pagination: response.NewPagination(total, page, limit),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

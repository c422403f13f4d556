package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aanyashri/hrmsbackend-users/internal/attendance"
	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	leaveerrors "github.com/aanyashri/hrmsbackend-users/internal/leave/errors"
	"github.com/aanyashri/hrmsbackend-users/internal/notification"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/contextutil"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/response"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Allotments per calendar year. Balances may go negative; the workflow
// never blocks an approval on an exhausted allotment.
var typeAllotments = map[string]float64{
	TypeSick:   12,
	TypeCasual: 12,
	TypeAnnual: 24,
}

const overallAllotment = 24.0

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, employeeNumber string, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, id, approverNumber string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, id, approverNumber string, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id, employeeNumber string) (LeaveResponse, error)
	GetMyRequests(ctx context.Context, employeeNumber string, status string, month, year, page, limit int) (LeavePage, error)
	GetBalance(ctx context.Context, employeeNumber string, year int) (BalanceResponse, error)
	GetCalendar(ctx context.Context, employeeNumber string, companyWide bool, month, year int) (CalendarResponse, error)
	GetStatistics(ctx context.Context, year int) (StatisticsResponse, error)
	GetAllRequests(ctx context.Context, filter AdminFilter, month, year, page, limit int) (LeavePage, error)
}

type service struct {
	db              *sql.DB
	repo            Repository
	employeeRepo    employee.Repository
	attendanceRepo  attendance.Repository
	notificationSvc notification.Service
	now             func() time.Time
	logger          *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	attendanceRepo attendance.Repository,
	notificationSvc notification.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:              db,
		repo:            repo,
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		notificationSvc: notificationSvc,
		now:             time.Now,
		logger:          l,
	}
}

func (s *service) Apply(ctx context.Context, employeeNumber string, req ApplyLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !IsValidType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days := end.Sub(start).Hours()/24 + 1
	if req.IsHalfDay && days == 1 {
		days = 0.5
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The check and insert share a transaction; the database constraint
	// backstops the race between concurrent submissions.
	overlapping, err := qtx.FindOverlapping(ctx, empl.ID.String(), start, end)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if len(overlapping) > 0 {
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	lr := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    empl.ID,
		LeaveType:     req.LeaveType,
		StartDate:     start,
		EndDate:       end,
		Days:          days,
		Reason:        req.Reason,
		IsHalfDay:     req.IsHalfDay,
		HalfDayPeriod: req.HalfDayPeriod,
		Status:        StatusPending,
		AppliedAt:     s.now(),
	}
	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("leave applied",
		zap.String("request_id", rid),
		zap.String("employee_number", employeeNumber),
		zap.String("leave_type", lr.LeaveType),
		zap.Float64("days", lr.Days),
	)
	return mapToResponse(*lr), nil
}

// Approve transitions the request, backfills the attendance ledger and queues
// the notification in one transaction. Any failure rolls the whole thing back,
// so a half-backfilled range cannot be observed.
func (s *service) Approve(ctx context.Context, id, approverNumber string, req ApproveLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	approver, err := s.resolveEmployee(ctx, approverNumber)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	now := s.now()
	lr.Status = StatusApproved
	lr.ApprovedBy = &approver.ID
	lr.ApprovedAt = &now
	lr.Notes = req.Notes
	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("approve leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	attendanceQtx := s.attendanceRepo.WithTx(tx)
	note := "Leave approved: " + lr.LeaveType
	for d := lr.StartDate; !d.After(lr.EndDate); d = d.AddDate(0, 0, 1) {
		if err := attendanceQtx.UpsertLeaveDay(ctx, lr.EmployeeID.String(), d, note); err != nil {
			s.logger.Error("approve leave attendance backfill failed",
				zap.String("date", d.Format("2006-01-02")),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := s.queueDecisionNotification(ctx, tx, lr, approver.ID, notification.TypeLeaveApproval,
		"Leave Request Approved",
		fmt.Sprintf("Your %s leave from %s to %s has been approved.",
			lr.LeaveType, lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02")),
	); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave approved",
		zap.String("request_id", rid),
		zap.String("leave_id", lr.ID.String()),
		zap.String("approver", approverNumber),
		zap.Float64("days", lr.Days),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Reject(ctx context.Context, id, approverNumber string, req RejectLeaveRequest) (LeaveResponse, error) {
	if req.RejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	approver, err := s.resolveEmployee(ctx, approverNumber)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	now := s.now()
	lr.Status = StatusRejected
	lr.ApprovedBy = &approver.ID
	lr.ApprovedAt = &now
	lr.RejectionReason = req.RejectionReason
	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("reject leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.queueDecisionNotification(ctx, tx, lr, approver.ID, notification.TypeLeaveRejection,
		"Leave Request Rejected",
		fmt.Sprintf("Your %s leave from %s to %s has been rejected. Reason: %s",
			lr.LeaveType, lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"),
			req.RejectionReason),
	); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave rejected",
		zap.String("leave_id", lr.ID.String()),
		zap.String("approver", approverNumber),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Cancel(ctx context.Context, id, employeeNumber string) (LeaveResponse, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return LeaveResponse{}, err
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if lr.EmployeeID != empl.ID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if lr.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	lr.Status = StatusCancelled
	if err := s.repo.Update(ctx, lr); err != nil {
		s.logger.Error("cancel leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave cancelled",
		zap.String("leave_id", lr.ID.String()),
		zap.String("employee_number", employeeNumber),
	)
	return mapToResponse(*lr), nil
}

func (s *service) GetMyRequests(ctx context.Context, employeeNumber string, status string, month, year, page, limit int) (LeavePage, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return LeavePage{}, err
	}

	filter := ListFilter{Status: status}
	if month != 0 || year != 0 {
		from, to, err := monthBounds(month, year)
		if err != nil {
			return LeavePage{}, err
		}
		filter.From = &from
		filter.To = &to
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := s.repo.FindByEmployee(ctx, empl.ID.String(), filter, limit, offset)
	if err != nil {
		s.logger.Error("list my leave requests failed", zap.Error(err))
		return LeavePage{}, err
	}
	total, err := s.repo.CountByEmployee(ctx, empl.ID.String(), filter)
	if err != nil {
		return LeavePage{}, err
	}

	return LeavePage{
		Requests:   mapToListResponse(rows),
		Pagination: response.NewPagination(total, page, limit),
	}, nil
}

func (s *service) GetBalance(ctx context.Context, employeeNumber string, year int) (BalanceResponse, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return BalanceResponse{}, err
	}

	if year == 0 {
		year = s.now().Year()
	}

	approved, err := s.repo.FindApprovedInYear(ctx, empl.ID.String(), year)
	if err != nil {
		s.logger.Error("get leave balance failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	usedByType := make(map[string]float64)
	var usedOverall float64
	for _, lr := range approved {
		usedByType[lr.LeaveType] += lr.Days
		usedOverall += lr.Days
	}

	types := make(map[string]TypeBalance, len(typeAllotments))
	for leaveType, total := range typeAllotments {
		used := usedByType[leaveType]
		types[leaveType] = TypeBalance{
			Total:     total,
			Used:      used,
			Remaining: total - used,
		}
	}

	return BalanceResponse{
		Year:  year,
		Types: types,
		Overall: TypeBalance{
			Total:     overallAllotment,
			Used:      usedOverall,
			Remaining: overallAllotment - usedOverall,
		},
	}, nil
}

func (s *service) GetCalendar(ctx context.Context, employeeNumber string, companyWide bool, month, year int) (CalendarResponse, error) {
	if month == 0 && year == 0 {
		now := s.now()
		month, year = int(now.Month()), now.Year()
	}
	from, to, err := monthBounds(month, year)
	if err != nil {
		return CalendarResponse{}, err
	}

	employeeID := ""
	if !companyWide {
		empl, err := s.resolveEmployee(ctx, employeeNumber)
		if err != nil {
			return CalendarResponse{}, err
		}
		employeeID = empl.ID.String()
	}

	rows, err := s.repo.FindApprovedOverlapping(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("get leave calendar failed", zap.Error(err))
		return CalendarResponse{}, err
	}

	entries := []CalendarEntry{}
	for _, lr := range rows {
		start := lr.StartDate
		if start.Before(from) {
			start = from
		}
		end := lr.EndDate
		if end.After(to) {
			end = to
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			entry := CalendarEntry{
				Date:          d.Format("2006-01-02"),
				LeaveType:     lr.LeaveType,
				IsHalfDay:     lr.IsHalfDay,
				HalfDayPeriod: lr.HalfDayPeriod,
			}
			if companyWide && lr.Employee != nil {
				entry.EmployeeNumber = lr.Employee.EmployeeNumber
				if lr.Employee.User != nil {
					entry.FullName = lr.Employee.User.Name
				}
			}
			entries = append(entries, entry)
		}
	}

	return CalendarResponse{Month: month, Year: year, Entries: entries}, nil
}

func (s *service) GetStatistics(ctx context.Context, year int) (StatisticsResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}

	rows, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		s.logger.Error("get leave statistics failed", zap.Error(err))
		return StatisticsResponse{}, err
	}

	stats := StatisticsResponse{
		Year:                year,
		ApprovedDaysByType:  make(map[string]float64),
		MonthlyApprovedDays: make([]float64, 12),
	}
	for _, lr := range rows {
		stats.TotalRequests++
		switch lr.Status {
		case StatusPending:
			stats.PendingRequests++
		case StatusApproved:
			stats.ApprovedRequests++
		case StatusRejected:
			stats.RejectedRequests++
		case StatusCancelled:
			stats.CancelledRequests++
		}
		if lr.Status != StatusApproved {
			continue
		}

		stats.ApprovedDaysByType[lr.LeaveType] += lr.Days

		// Spread the request's day total evenly across its calendar days so
		// a range straddling a month boundary lands in both buckets.
		calendarDays := int(lr.EndDate.Sub(lr.StartDate).Hours()/24) + 1
		perDay := lr.Days / float64(calendarDays)
		for d := lr.StartDate; !d.After(lr.EndDate); d = d.AddDate(0, 0, 1) {
			if d.Year() == year {
				stats.MonthlyApprovedDays[int(d.Month())-1] += perDay
			}
		}
	}

	for i := range stats.MonthlyApprovedDays {
		stats.MonthlyApprovedDays[i] = math.Round(stats.MonthlyApprovedDays[i]*100) / 100
	}
	return stats, nil
}

func (s *service) GetAllRequests(ctx context.Context, filter AdminFilter, month, year, page, limit int) (LeavePage, error) {
	if month != 0 || year != 0 {
		from, to, err := monthBounds(month, year)
		if err != nil {
			return LeavePage{}, err
		}
		filter.From = &from
		filter.To = &to
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error("list all leave requests failed", zap.Error(err))
		return LeavePage{}, err
	}
	total, err := s.repo.CountAll(ctx, filter)
	if err != nil {
		return LeavePage{}, err
	}

	return LeavePage{
		Requests:   mapToListResponse(rows),
		Pagination: response.NewPagination(total, page, limit),
	}, nil
}

func (s *service) queueDecisionNotification(ctx context.Context, tx *sql.Tx, lr *LeaveRequest, approverID uuid.UUID, notifType, title, message string) error {
	contact, err := s.employeeRepo.Contact(ctx, lr.EmployeeID.String())
	if err != nil {
		s.logger.Error("resolve leave recipient contact failed", zap.Error(err))
		return err
	}

	hasPhone := contact.Phone != nil && *contact.Phone != ""
	_, err = s.notificationSvc.CreateWithTx(ctx, tx, notification.CreateInput{
		RecipientID: lr.EmployeeID.String(),
		SenderID:    approverID.String(),
		Type:        notifType,
		Title:       title,
		Message:     message,
		Priority:    notification.PriorityHigh,
		EntityType:  "leave_request",
		EntityID:    lr.ID.String(),
		SendEmail:   true,
		SendSMS:     hasPhone,
		EmailHTML:   fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", contact.Name, message),
	})
	if err != nil {
		s.logger.Error("queue leave decision notification failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) resolveEmployee(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	empl, err := s.employeeRepo.FindActiveByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return empl, nil
}

func monthBounds(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidPeriod
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to, nil
}

// mapRepositoryError folds the overlap constraint violations into the
// conflict error so a lost race reads the same as a losing overlap check.
func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23P01") {
		return leaveerrors.ErrOverlappingLeave
	}
	return err
}

func mapToResponse(lr LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              lr.ID.String(),
		EmployeeID:      lr.EmployeeID.String(),
		LeaveType:       lr.LeaveType,
		StartDate:       lr.StartDate.Format("2006-01-02"),
		EndDate:         lr.EndDate.Format("2006-01-02"),
		Days:            lr.Days,
		Reason:          lr.Reason,
		IsHalfDay:       lr.IsHalfDay,
		HalfDayPeriod:   lr.HalfDayPeriod,
		Status:          lr.Status,
		AppliedAt:       lr.AppliedAt.Format(time.RFC3339),
		RejectionReason: lr.RejectionReason,
		Notes:           lr.Notes,
	}
	if lr.ApprovedBy != nil {
		approvedBy := lr.ApprovedBy.String()
		resp.ApprovedBy = &approvedBy
	}
	if lr.ApprovedAt != nil {
		approvedAt := lr.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	if lr.Employee != nil {
		resp.Employee = &LeaveEmployee{
			EmployeeNumber: lr.Employee.EmployeeNumber,
			Department:     lr.Employee.Department,
		}
		if lr.Employee.User != nil {
			resp.Employee.FullName = lr.Employee.User.Name
		}
	}
	return resp
}

func mapToListResponse(rows []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(rows))
	for i, lr := range rows {
		resp[i] = mapToResponse(lr)
	}
	return resp
}

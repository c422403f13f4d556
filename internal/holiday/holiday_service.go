package holiday

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aanyashri/hrmsbackend-users/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid holiday date",
		http.StatusBadRequest,
	)
	ErrDuplicateDate = apperror.New(
		apperror.CodeConflict,
		"a holiday already exists on that date",
		http.StatusConflict,
	)
)

type CreateHolidayRequest struct {
	Name string `json:"name" binding:"required,max=120"`
	Date string `json:"date" binding:"required"`
	Type string `json:"type" binding:"omitempty,oneof=public company optional"`
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Type string `json:"type"`
}

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context, year int) ([]HolidayResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return HolidayResponse{}, ErrInvalidDate
	}

	holidayType := req.Type
	if holidayType == "" {
		holidayType = TypePublic
	}

	h := &Holiday{
		ID:   uuid.New(),
		Name: req.Name,
		Date: date,
		Type: holidayType,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return HolidayResponse{}, ErrDuplicateDate
		}
		s.logger.Error("create holiday failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.logger.Info("holiday created", zap.String("name", h.Name), zap.String("date", req.Date))
	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context, year int) ([]HolidayResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}

	rows, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		s.logger.Error("list holidays failed", zap.Error(err))
		return nil, err
	}

	resp := make([]HolidayResponse, len(rows))
	for i, h := range rows {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Name: h.Name,
		Date: h.Date.Format("2006-01-02"),
		Type: h.Type,
	}
}

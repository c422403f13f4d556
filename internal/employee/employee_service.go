package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "github.com/aanyashri/hrmsbackend-users/internal/employee/errors"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/contextutil"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const OptionsCacheKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByNumber(ctx context.Context, employeeNumber string) (EmployeeResponse, error)
	Update(ctx context.Context, employeeNumber string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, employeeNumber string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		s.logger.Warn("create employee invalid join_date", zap.String("join_date", req.JoinDate))
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	role := req.Role
	if role == "" {
		role = "employee"
	}
	department := req.Department
	if department == "" {
		department = "General"
	}

	user := &User{
		ID:    uuid.New(),
		Name:  req.FullName,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := qtx.CreateUser(ctx, user); err != nil {
		s.logger.Error("create employee persist user failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl := &Employee{
		ID:             uuid.New(),
		EmployeeNumber: req.EmployeeNumber,
		UserID:         user.ID,
		Role:           role,
		Department:     department,
		Designation:    req.Designation,
		JoinDate:       joinDate,
		IsActive:       true,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	empl.User = user
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight keeps a cold cache from stampeding the database
	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		employees, err := s.repo.FindAllActive(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, OptionsCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByNumber(ctx context.Context, employeeNumber string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, employeeNumber string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	empl.Role = req.Role
	empl.Department = req.Department
	empl.Designation = req.Designation
	empl.JoinDate = joinDate

	if empl.User != nil {
		empl.User.Name = req.FullName
		empl.User.Email = req.Email
		empl.User.Phone = req.Phone
		if err := qtx.UpdateUser(ctx, empl.User); err != nil {
			s.logger.Error("update employee persist user failed", zap.Error(err))
			return EmployeeResponse{}, mapRepositoryError(err)
		}
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("update employee success", zap.String("employee_number", employeeNumber))

	return mapToResponse(*empl), nil
}

func (s *service) Deactivate(ctx context.Context, employeeNumber string) error {
	empl, err := s.repo.FindByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	if err := s.repo.Deactivate(ctx, empl.ID.String()); err != nil {
		s.logger.Error("deactivate employee failed",
			zap.String("employee_number", employeeNumber),
			zap.Error(err),
		)
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("deactivate employee success", zap.String("employee_number", employeeNumber))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "idx_users_email":
			return employeeerrors.ErrEmailTaken
		case "idx_employees_employee_number":
			return employeeerrors.ErrEmployeeNumberTaken
		}
	}
	return err
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		Role:           e.Role,
		Department:     e.Department,
		Designation:    e.Designation,
		JoinDate:       e.JoinDate.Format("2006-01-02"),
		IsActive:       e.IsActive,
	}
	if e.User != nil {
		resp.FullName = e.User.Name
		resp.Email = e.User.Email
		resp.Phone = e.User.Phone
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}

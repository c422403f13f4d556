package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateUser(ctx context.Context, u *User) error
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByNumber(ctx context.Context, employeeNumber string) (*Employee, error)
	FindActiveByNumber(ctx context.Context, employeeNumber string) (*Employee, error)
	Contact(ctx context.Context, employeeID string) (*Contact, error)
	Update(ctx context.Context, e *Employee) error
	UpdateUser(ctx context.Context, u *User) error
	Deactivate(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm handle onto the caller's transaction connection,
// so the user and employee rows commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) CreateUser(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_active = ?", true).
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByNumber(ctx context.Context, employeeNumber string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&e, "employee_number = ?", employeeNumber).Error
	return &e, err
}

func (r *repository) FindActiveByNumber(ctx context.Context, employeeNumber string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_active = ?", true).
		First(&e, "employee_number = ?", employeeNumber).Error
	return &e, err
}

func (r *repository) Contact(ctx context.Context, employeeID string) (*Contact, error) {
	var c Contact
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("employees.id AS employee_id, users.name, users.email, users.phone").
		Joins("JOIN users ON users.id = employees.user_id").
		Where("employees.id = ?", employeeID).
		Take(&c).Error
	return &c, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Omit("User").Save(e).Error
}

func (r *repository) UpdateUser(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

package employee

import (
	"time"

	"github.com/google/uuid"
)

// User carries the contact identity an Employee links to 1:1.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone     *string   `gorm:"type:varchar(30)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Role           string    `gorm:"type:varchar(40);not null;default:'employee'"`
	Department     string    `gorm:"type:varchar(80);not null;default:'General'"`
	Designation    string    `gorm:"type:varchar(80)"`
	JoinDate       time.Time `gorm:"type:date;not null"`
	IsActive       bool      `gorm:"not null;default:true;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// Contact is the narrow projection delivery paths need.
type Contact struct {
	EmployeeID uuid.UUID
	Name       string
	Email      string
	Phone      *string
}

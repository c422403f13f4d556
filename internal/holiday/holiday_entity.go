package holiday

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePublic   = "public"
	TypeCompany  = "company"
	TypeOptional = "optional"
)

type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex"`
	Type      string    `gorm:"type:varchar(20);not null;default:'public'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}

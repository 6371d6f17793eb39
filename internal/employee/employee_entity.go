package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName     string     `gorm:"type:varchar(120);not null"`
	Email        string     `gorm:"type:varchar(120);uniqueIndex;not null"`
	Phone        string     `gorm:"type:varchar(30)"`
	Role         string     `gorm:"type:varchar(30);not null;default:'employee'"`
	SupervisorID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

package rbac

import "github.com/google/uuid"

// RolePermission grants one action on one resource to a role name.
// Roles are seeded at deployment (employee, supervisor, admin).
type RolePermission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Role     string    `gorm:"type:varchar(30);not null;index"`
	Resource string    `gorm:"type:varchar(40);not null"`
	Action   string    `gorm:"type:varchar(40);not null"`
}

type EmployeeRole struct {
	EmployeeID string
	Role       string
}

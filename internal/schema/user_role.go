package schema

import "github.com/google/uuid"

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleCoach      = "coach"
	RoleClient     = "client"
)

type UserRole struct {
	UUIDV7

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role   string    `gorm:"size:32;not null;uniqueIndex:idx_user_roles_user_role;index" json:"role"`
}

func (UserRole) TableName() string { return "user_roles" }

package schema

import "github.com/google/uuid"

// Profile is the account record. CoachID is the direct coach assignment and,
// when set, takes priority over CoachAssignment.
type Profile struct {
	UUIDV7
	CreatedAt

	Email        string     `gorm:"size:255;uniqueIndex" json:"email"`
	FullName     string     `gorm:"size:200" json:"full_name"`
	CoachID      *uuid.UUID `gorm:"type:uuid;index" json:"coach_id,omitempty"`
	IsSuperAdmin bool       `gorm:"not null;default:false" json:"is_super_admin"`
}

func (Profile) TableName() string { return "profiles" }

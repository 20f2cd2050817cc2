package schema

import (
	"time"

	"github.com/google/uuid"
)

// CoachAssignment is the legacy, enum-based assignment: one row per client,
// CoachName possibly a composite of several coach fragments.
type CoachAssignment struct {
	ClientID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"client_id"`
	CoachName string    `gorm:"size:100;not null" json:"coach_name"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CoachAssignment) TableName() string { return "coach_assignments" }

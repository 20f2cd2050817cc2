package schema

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDV7 is the primary key shared by every table; ids are assigned on insert
// when left zero.
type UUIDV7 struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

func (m *UUIDV7) BeforeCreate(*gorm.DB) error {
	if m.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// CreatedAt provides only created_at (for append-only records).
type CreatedAt struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Profile{},
		&UserRole{},
		&CoachAssignment{},
		&CheckIn{},
		&PushSubscription{},
		&Notification{},
		&AbsenceNotification{},
	}
}

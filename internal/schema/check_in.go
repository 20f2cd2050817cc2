package schema

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn is a client's daily check-in. CheckinDate is the local calendar day
// stored as midnight UTC.
type CheckIn struct {
	UUIDV7
	CreatedAt

	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_checkins_user_date" json:"user_id"`
	CheckinDate time.Time `gorm:"not null;index:idx_checkins_user_date;index" json:"checkin_date"`
}

func (CheckIn) TableName() string { return "daily_checkins" }

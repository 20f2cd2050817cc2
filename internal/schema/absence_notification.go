package schema

import "github.com/google/uuid"

const (
	AbsenceDay2       = "day2"
	AbsenceDay5       = "day5"
	AbsenceCoachAlert = "coach_alert"
)

// AbsenceNotification is the append-only ledger of absence emissions.
type AbsenceNotification struct {
	UUIDV7
	CreatedAt

	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	NotificationType string    `gorm:"size:32;not null" json:"notification_type"`
}

func (AbsenceNotification) TableName() string { return "absence_notifications" }

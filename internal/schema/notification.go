package schema

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is an in-app notification row.
type Notification struct {
	UUIDV7
	CreatedAt

	UserID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	Type     string            `gorm:"size:64;not null" json:"type"`
	Title    string            `gorm:"size:255;not null" json:"title"`
	Message  string            `gorm:"type:text" json:"message"`
	Link     string            `gorm:"size:512" json:"link"`
	Metadata datatypes.JSONMap `json:"metadata"`
	IsRead   bool              `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
}

func (Notification) TableName() string { return "notifications" }

// Notification types. daily_reminder is push-only and never stored.
const (
	TypeNewCheckin     = "new_checkin"
	TypeVideoUploaded  = "video_uploaded"
	TypeVideoFeedback  = "video_feedback"
	TypeCoachFeedback  = "coach_feedback"
	TypeCoachMaterial  = "coach_material"
	TypeClientFeedback = "client_feedback"
	TypeCoachNote      = "coach_note"
	TypeDay2           = "day2"
	TypeDay5           = "day5"
	TypeCoachAlert     = "coach_alert"
	TypeDailyReminder  = "daily_reminder"
)

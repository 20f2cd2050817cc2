package schema

import "github.com/google/uuid"

// PushSubscription is one browser/OS push endpoint of a user.
type PushSubscription struct {
	UUIDV7
	CreatedAt

	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_push_user_endpoint" json:"user_id"`
	Endpoint string    `gorm:"size:1024;not null;uniqueIndex:idx_push_user_endpoint" json:"endpoint"`
	P256dh   string    `gorm:"column:p256dh;size:255;not null" json:"p256dh"`
	Auth     string    `gorm:"size:255;not null" json:"auth"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }

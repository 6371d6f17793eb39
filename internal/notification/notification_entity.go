package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusDelivered = "DELIVERED"
	StatusFailed    = "FAILED"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelInApp = "inapp"
)

// Notification is one delivery attempt of one event over one channel.
// Rows are immutable apart from their delivery status; a failed delivery
// is recorded for later inspection, never retried in place.
type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_notifications_event_channel"`
	Channel        string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_notifications_event_channel"`
	RecipientID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	LeaveRequestID *uuid.UUID `gorm:"type:uuid"`
	EventType      string     `gorm:"type:varchar(40);not null"`
	Message        string     `gorm:"type:text;not null"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	FailureReason  *string    `gorm:"type:text"`

	CreatedAt   time.Time
	DeliveredAt *time.Time
}

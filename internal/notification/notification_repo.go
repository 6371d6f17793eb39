package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByEventAndChannel(ctx context.Context, eventID uuid.UUID, channel string) (*Notification, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	ListByRecipient(ctx context.Context, recipientID string, channel string) ([]Notification, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByEventAndChannel(ctx context.Context, eventID uuid.UUID, channel string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND channel = ?", eventID, channel).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         StatusDelivered,
			"delivered_at":   now,
			"failure_reason": nil,
		}).Error
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         StatusFailed,
			"failure_reason": reason,
		}).Error
}

func (r *repository) ListByRecipient(ctx context.Context, recipientID string, channel string) ([]Notification, error) {
	var notifications []Notification
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if channel != "" {
		q = q.Where("channel = ?", channel)
	}
	err := q.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// IsDuplicate reports whether err is the unique violation raised when the
// same event has already been recorded for a channel.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

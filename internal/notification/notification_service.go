package notification

import (
	"context"

	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	ListInbox(ctx context.Context, recipientID string) ([]NotificationResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

// ListInbox returns the recipient's in-app notifications, newest first.
func (s *service) ListInbox(ctx context.Context, recipientID string) ([]NotificationResponse, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, ChannelInApp)
	if err != nil {
		s.logger.Error("list inbox failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(notifications), nil
}

package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	"go-hrms/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory resolves event recipients to deliverable contacts.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

type NotificationConsumer struct {
	reader     *kafkago.Reader
	dispatcher *notification.Dispatcher
	directory  EmployeeDirectory
	logger     *zap.Logger
}

func NewNotificationConsumer(
	reader *kafkago.Reader,
	dispatcher *notification.Dispatcher,
	directory EmployeeDirectory,
	logger ...*zap.Logger,
) *NotificationConsumer {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &NotificationConsumer{
		reader:     reader,
		dispatcher: dispatcher,
		directory:  directory,
		logger:     l.Named("kafka.consumer.notification"),
	}
}

// Run consumes until the context is cancelled. Offsets commit only after
// the dispatcher has recorded the event, so a crash replays the message
// and the dispatcher's dedupe absorbs the duplicate.
func (c *NotificationConsumer) Run(ctx context.Context) error {
	c.logger.Info("notification consumer started",
		zap.String("topic", events.LeaveNotificationsTopic),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.logger.Info("notification consumer stopped")
				return nil
			}
			return err
		}

		if err := c.handleMessage(ctx, msg); err != nil {
			c.logger.Error("handle message failed, leaving uncommitted",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit offset failed", zap.Error(err))
		}
	}
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var evt events.LeaveNotificationEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		// Malformed payloads never become deliverable; drop, do not retry.
		c.logger.Warn("skipping undecodable message",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	emp, err := c.directory.FindByID(ctx, evt.RecipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Warn("recipient no longer exists, skipping",
				zap.String("event_id", evt.EventID),
				zap.String("recipient_id", evt.RecipientID),
			)
			return nil
		}
		return err
	}

	return c.dispatcher.Dispatch(ctx, evt, notification.Recipient{
		ID:       emp.ID,
		FullName: emp.FullName,
		Email:    emp.Email,
		Phone:    emp.Phone,
	})
}

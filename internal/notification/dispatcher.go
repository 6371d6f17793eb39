package notification

import (
	"context"
	"strings"

	"go-hrms/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultRoute is used for any event type without an explicit mapping.
var DefaultRoute = []string{ChannelInApp}

// Dispatcher fans one lifecycle event out to the channels configured for
// its event type. Every attempt is recorded as a notification row before
// the send, so no event is silently dropped; a failed delivery is recorded
// and never surfaces as an error to the business flow.
type Dispatcher struct {
	repo     Repository
	channels map[string]Channel
	routes   map[string][]string
	logger   *zap.Logger
}

func NewDispatcher(repo Repository, routes map[string][]string, channels []Channel, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}

	byName := make(map[string]Channel, len(channels))
	for _, ch := range channels {
		byName[ch.Name()] = ch
	}

	return &Dispatcher{
		repo:     repo,
		channels: byName,
		routes:   routes,
		logger:   l,
	}
}

// Dispatch records and sends the event over each configured channel.
// The returned error reports storage faults only, never delivery failures.
func (d *Dispatcher) Dispatch(ctx context.Context, evt events.LeaveNotificationEvent, rcpt Recipient) error {
	eventID, err := uuid.Parse(evt.EventID)
	if err != nil {
		d.logger.Error("dispatch skipped, malformed event id",
			zap.String("event_id", evt.EventID),
			zap.String("event_type", evt.EventType),
		)
		return err
	}

	var leaveID *uuid.UUID
	if parsed, err := uuid.Parse(evt.LeaveID); err == nil {
		leaveID = &parsed
	}

	route, ok := d.routes[evt.EventType]
	if !ok || len(route) == 0 {
		route = DefaultRoute
	}

	for _, name := range route {
		ch, ok := d.channels[name]
		if !ok {
			d.logger.Warn("unknown notification channel in route",
				zap.String("channel", name),
				zap.String("event_type", evt.EventType),
			)
			continue
		}

		record := &Notification{
			ID:             uuid.New(),
			EventID:        eventID,
			Channel:        ch.Name(),
			RecipientID:    rcpt.ID,
			LeaveRequestID: leaveID,
			EventType:      evt.EventType,
			Message:        evt.Message,
			Status:         StatusPending,
		}

		if err := d.repo.Create(ctx, record); err != nil {
			if !IsDuplicate(err) {
				return err
			}
			existing, ferr := d.repo.FindByEventAndChannel(ctx, eventID, ch.Name())
			if ferr != nil {
				return ferr
			}
			if existing.Status != StatusPending {
				// Redelivered event: this channel already fired once.
				d.logger.Debug("notification already recorded, skipping",
					zap.String("event_id", evt.EventID),
					zap.String("channel", ch.Name()),
				)
				continue
			}
			// A prior attempt recorded the row but never sent. Finish it.
			record = existing
		}

		result := ch.Send(ctx, rcpt, evt.Message)
		if result.Delivered {
			if err := d.repo.MarkDelivered(ctx, record.ID); err != nil {
				return err
			}
			d.logger.Info("notification delivered",
				zap.String("event_type", evt.EventType),
				zap.String("channel", ch.Name()),
				zap.String("recipient_id", rcpt.ID.String()),
			)
			continue
		}

		if err := d.repo.MarkFailed(ctx, record.ID, result.Reason); err != nil {
			return err
		}
		d.logger.Warn("notification delivery failed",
			zap.String("event_type", evt.EventType),
			zap.String("channel", ch.Name()),
			zap.String("recipient_id", rcpt.ID.String()),
			zap.String("reason", result.Reason),
		)
	}

	return nil
}

// ParseRoutes reads a routing table of the form
// "leave.approved=inapp,email;leave.forwarded=inapp".
func ParseRoutes(raw string) map[string][]string {
	routes := make(map[string][]string)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		var channels []string
		for _, ch := range strings.Split(value, ",") {
			ch = strings.TrimSpace(ch)
			if ch != "" {
				channels = append(channels, ch)
			}
		}
		if len(channels) > 0 {
			routes[strings.TrimSpace(key)] = channels
		}
	}
	return routes
}

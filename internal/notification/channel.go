package notification

import (
	"context"

	"github.com/google/uuid"
)

// Recipient carries the contact details a channel needs. The consumer
// resolves it from the employee directory before dispatching.
type Recipient struct {
	ID       uuid.UUID
	FullName string
	Email    string
	Phone    string
}

// DeliveryResult reports the outcome of one send attempt. Channels never
// return an error for a delivery failure; the caller records the result
// and the triggering business transaction is unaffected.
type DeliveryResult struct {
	Delivered bool
	Reason    string
}

func Delivered() DeliveryResult {
	return DeliveryResult{Delivered: true}
}

func Failed(reason string) DeliveryResult {
	return DeliveryResult{Delivered: false, Reason: reason}
}

type Channel interface {
	Name() string
	Send(ctx context.Context, rcpt Recipient, message string) DeliveryResult
}

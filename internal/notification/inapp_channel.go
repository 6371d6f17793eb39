package notification

import "context"

// inappChannel delivers by existing: the dispatcher records every attempt
// as a notification row, and delivered inapp rows are the employee's inbox.
type inappChannel struct{}

func NewInAppChannel() Channel {
	return &inappChannel{}
}

func (c *inappChannel) Name() string {
	return ChannelInApp
}

func (c *inappChannel) Send(_ context.Context, _ Recipient, _ string) DeliveryResult {
	return Delivered()
}

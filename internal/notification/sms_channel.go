package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type SMSConfig struct {
	ProviderURL string
	APIKey      string
}

type smsChannel struct {
	cfg    SMSConfig
	client *http.Client
}

func NewSMSChannel(cfg SMSConfig) Channel {
	return &smsChannel{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *smsChannel) Name() string {
	return ChannelSMS
}

func (c *smsChannel) Send(ctx context.Context, rcpt Recipient, message string) DeliveryResult {
	if rcpt.Phone == "" {
		return Failed("recipient has no phone number")
	}
	if c.cfg.ProviderURL == "" {
		return Failed("sms provider not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"to":   rcpt.Phone,
		"body": message,
	})
	if err != nil {
		return Failed(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ProviderURL, bytes.NewReader(payload))
	if err != nil {
		return Failed(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failed(fmt.Sprintf("sms provider returned status %d", resp.StatusCode))
	}

	return Delivered()
}

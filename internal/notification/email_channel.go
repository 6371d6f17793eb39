package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

type EmailConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

type emailChannel struct {
	cfg EmailConfig
}

func NewEmailChannel(cfg EmailConfig) Channel {
	return &emailChannel{cfg: cfg}
}

func (c *emailChannel) Name() string {
	return ChannelEmail
}

func (c *emailChannel) Send(_ context.Context, rcpt Recipient, message string) DeliveryResult {
	if rcpt.Email == "" {
		return Failed("recipient has no email address")
	}
	if c.cfg.Host == "" {
		return Failed("smtp host not configured")
	}

	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Leave request update\r\n\r\n%s\r\n",
		c.cfg.From, rcpt.Email, message,
	)

	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	addr := c.cfg.Host + ":" + c.cfg.Port
	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{rcpt.Email}, []byte(body)); err != nil {
		return Failed(err.Error())
	}

	return Delivered()
}

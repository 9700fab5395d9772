// Package sms is a stub SMS channel. No provider is wired yet, so messages
// are normalized and logged instead of delivered.
package sms

import (
	"context"

	"axentra_crm_backend/platform/logger"
	"axentra_crm_backend/platform/phone"
)

type Client struct {
	log *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	return &Client{log: log}
}

// SendMessage logs the message. It never fails so that notification logs
// record the attempt the same way a real provider integration would.
func (c *Client) SendMessage(_ context.Context, phoneNumber string, message string) error {
	normalized := phone.NormalizeE164(phoneNumber)
	c.log.Info("sms send (stub)", "phone", normalized, "length", len(message))
	return nil
}

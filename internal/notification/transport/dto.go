// Package transport defines the HTTP shapes for the notification module.
package transport

// SendNotificationRequest is the payload for sending a notification.
type SendNotificationRequest struct {
	Message   string `json:"message" validate:"required"`
	Channel   string `json:"channel" validate:"required,oneof=email whatsapp sms"`
	Recipient string `json:"recipient" validate:"required,max=255"`
	Subject   string `json:"subject,omitempty" validate:"omitempty,max=255"`
}

// SendNotificationResponse reports the log entry and final delivery status.
type SendNotificationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

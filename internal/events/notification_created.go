package events

import "time"

const NotificationCreatedTopic = "hr.notification.created.v1"

type NotificationCreatedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	NotificationID string    `json:"notification_id"`
	RecipientID    string    `json:"recipient_id"`
	SendEmail      bool      `json:"send_email"`
	SendSMS        bool      `json:"send_sms"`
	EmailHTML      string    `json:"email_html,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

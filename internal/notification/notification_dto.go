package notification

import "time"

type CreateInput struct {
	RecipientID string
	SenderID    string
	Type        string
	Title       string
	Message     string
	Priority    string
	ActionURL   string
	ActionText  string
	EntityType  string
	EntityID    string
	ExpiresAt   *time.Time
	SendEmail   bool
	SendSMS     bool
	EmailHTML   string
}

type BroadcastRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Message   string `json:"message" binding:"required"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	SendEmail bool   `json:"send_email"`
	SendSMS   bool   `json:"send_sms"`
}

type BroadcastResult struct {
	Recipients int `json:"recipients"`
}

type NotificationResponse struct {
	ID                 string  `json:"id"`
	NotificationNumber string  `json:"notification_number"`
	Type               string  `json:"type"`
	Title              string  `json:"title"`
	Message            string  `json:"message"`
	Priority           string  `json:"priority"`
	IsRead             bool    `json:"is_read"`
	ReadAt             *string `json:"read_at,omitempty"`
	ActionURL          string  `json:"action_url,omitempty"`
	ActionText         string  `json:"action_text,omitempty"`
	EntityType         string  `json:"entity_type,omitempty"`
	EntityID           string  `json:"entity_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// GroupedNotifications splits the page into the two buckets the inbox UI
// renders. The split is computed against now at read time.
type GroupedNotifications struct {
	Recent      []NotificationResponse `json:"recent"`
	Earlier     []NotificationResponse `json:"earlier"`
	UnreadCount int64                  `json:"unread_count"`
	Pagination  any                    `json:"pagination"`
}

type MarkAllReadResult struct {
	Updated int64 `json:"updated"`
}

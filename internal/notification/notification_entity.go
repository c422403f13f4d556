package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePolicyUpdate        = "policy_update"
	TypeLeaveRequest        = "leave_request"
	TypeLeaveApproval       = "leave_approval"
	TypeLeaveRejection      = "leave_rejection"
	TypePayrollProcessed    = "payroll_processed"
	TypeHolidayAnnouncement = "holiday_announcement"
	TypeAttendanceReminder  = "attendance_reminder"
	TypeSystemUpdate        = "system_update"
	TypeGeneral             = "general"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var validTypes = map[string]struct{}{
	TypePolicyUpdate:        {},
	TypeLeaveRequest:        {},
	TypeLeaveApproval:       {},
	TypeLeaveRejection:      {},
	TypePayrollProcessed:    {},
	TypeHolidayAnnouncement: {},
	TypeAttendanceReminder:  {},
	TypeSystemUpdate:        {},
	TypeGeneral:             {},
}

var validPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

func IsValidPriority(p string) bool {
	_, ok := validPriorities[p]
	return ok
}

// Notification is the persisted in-app record. Whether it is "recent" is
// derived from CreatedAt at read time and never stored.
type Notification struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotificationNumber string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	RecipientID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderID           *uuid.UUID `gorm:"type:uuid"`
	Type               string     `gorm:"type:varchar(40);not null;index"`
	Title              string     `gorm:"type:varchar(200);not null"`
	Message            string     `gorm:"type:text;not null"`
	Priority           string     `gorm:"type:varchar(10);not null;default:'medium'"`
	IsRead             bool       `gorm:"not null;default:false;index"`
	ReadAt             *time.Time
	ActionURL          string `gorm:"type:varchar(500)"`
	ActionText         string `gorm:"type:varchar(100)"`
	EntityType         string `gorm:"type:varchar(40)"`
	EntityID           string `gorm:"type:varchar(64)"`
	ExpiresAt          *time.Time
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

package models

import "time"

type NotificationKind string

const (
	NotificationKindStatusChange NotificationKind = "status_change"
	NotificationKindAssignment   NotificationKind = "assignment"
	NotificationKindVerification NotificationKind = "verification"
	NotificationKindSystem       NotificationKind = "system"
)

type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Title     string
	Body      string
	ReportID  *string
	ReadAt    *time.Time
	CreatedAt time.Time
}

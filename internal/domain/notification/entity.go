package notification

import "time"

// NotificationType mirrors the type column consumed by the dashboard UI.
type NotificationType string

const (
	TypeInfo    NotificationType = "info"
	TypeSuccess NotificationType = "success"
	TypeWarning NotificationType = "warning"
)

type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	ActionURL string
	IsRead    bool
	CreatedAt time.Time
}

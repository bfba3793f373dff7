package notification

import "context"

// CreateNotificationRequest is the payload queued by producers.
type CreateNotificationRequest struct {
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	ActionURL string
}

// Service is a fire-and-forget sink: Notify never returns an error to the
// caller; delivery failures are logged and swallowed so that payroll flows
// are never aborted by the notification subsystem.
type Service interface {
	Notify(ctx context.Context, req CreateNotificationRequest)
	NotifyBulk(ctx context.Context, reqs []CreateNotificationRequest)
	Stop()
}

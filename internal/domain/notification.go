package domain

import "context"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient, user-visible message (a toast).
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier delivers notifications to whoever is showing them to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

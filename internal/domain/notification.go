package domain

import "time"

// NotificationLevel mirrors the dashboard toast variants.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a user-visible outcome of an operation.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Resource  string            `json:"resource"`
	Message   string            `json:"message"`
	Detail    string            `json:"detail,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

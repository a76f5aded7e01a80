package models

import "time"

// Severity — важность уведомления.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification — кратковременное сообщение пользователю.
type Notification struct {
	ID        uint64
	Message   string
	Severity  Severity
	CreatedAt time.Time
	ExpiresAt time.Time
}

package domain

import "time"

const (
	SeverityInfo        = "info"
	SeverityDestructive = "destructive"
)

// Notification is the toast payload delivered to the user.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

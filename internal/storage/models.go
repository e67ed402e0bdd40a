// Package storage provides database operations and data models.
package storage

import "time"

// RequestKind represents the kind of weather request a user made.
type RequestKind string

const (
	RequestCurrent  RequestKind = "current"
	RequestForecast RequestKind = "forecast"
	RequestCompare  RequestKind = "compare"
)

// Request is one entry in a user's request history.
type Request struct {
	ID        int64       `db:"id"`
	UserID    int64       `db:"user_id"`
	City      string      `db:"city"`
	Kind      RequestKind `db:"request_type"`
	Timestamp time.Time   `db:"timestamp"`
}

// NotificationTime is a daily delivery time for one user, "HH:MM".
type NotificationTime struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Time   string `db:"notify_time"`
}

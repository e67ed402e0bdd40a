package storage

import (
	"database/sql"
	"errors"
)

// PreferenceStore handles user-preference database operations.
type PreferenceStore struct {
	db *Database
}

// NewPreferenceStore creates a new preference store.
func NewPreferenceStore(db *Database) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// SaveRequest appends a request-history entry.
func (s *PreferenceStore) SaveRequest(userID int64, city string, kind RequestKind) error {
	query := `INSERT INTO requests (user_id, city, request_type) VALUES (?, ?, ?)`
	_, err := s.db.Exec(query, userID, city, kind)
	return err
}

// History returns the most recent `limit` requests for a user,
// most recent first.
func (s *PreferenceStore) History(userID int64, limit int) ([]Request, error) {
	var reqs []Request
	query := `
		SELECT id, user_id, city, request_type, timestamp
		FROM requests
		WHERE user_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	err := s.db.Select(&reqs, query, userID, limit)
	return reqs, err
}

// AddFavoriteCity appends a favorite city for a user. No deduplication:
// adding the same city twice produces two rows, and scheduled delivery
// sends one message per row.
func (s *PreferenceStore) AddFavoriteCity(userID int64, city string) error {
	query := `INSERT INTO favorite_cities (user_id, city) VALUES (?, ?)`
	_, err := s.db.Exec(query, userID, city)
	return err
}

// FavoriteCities returns a user's favorite cities in insertion order.
func (s *PreferenceStore) FavoriteCities(userID int64) ([]string, error) {
	var cities []string
	query := `SELECT city FROM favorite_cities WHERE user_id = ? ORDER BY id ASC`
	err := s.db.Select(&cities, query, userID)
	return cities, err
}

// AddNotificationTime records a daily notification time ("HH:MM") for a
// user. Re-adding an existing (user, time) pair is silently absorbed.
func (s *PreferenceStore) AddNotificationTime(userID int64, notifyTime string) error {
	query := `INSERT OR IGNORE INTO notifications (user_id, notify_time) VALUES (?, ?)`
	_, err := s.db.Exec(query, userID, notifyTime)
	return err
}

// NotificationTimes returns a user's notification times.
func (s *PreferenceStore) NotificationTimes(userID int64) ([]string, error) {
	var times []string
	query := `SELECT notify_time FROM notifications WHERE user_id = ? ORDER BY notify_time ASC`
	err := s.db.Select(&times, query, userID)
	return times, err
}

// AllNotificationTimes returns every persisted (user, time) pair. Used by
// the startup reconciliation pass to rebuild the scheduler's job set.
func (s *PreferenceStore) AllNotificationTimes() ([]NotificationTime, error) {
	var times []NotificationTime
	query := `SELECT id, user_id, notify_time FROM notifications ORDER BY user_id, notify_time`
	err := s.db.Select(&times, query)
	return times, err
}

// DeleteNotifications removes all notification times for a user in one
// operation. Used by the stop-all-notifications flow.
func (s *PreferenceStore) DeleteNotifications(userID int64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM notifications WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// SetAlert stores a user's extreme-weather alert toggle. The latest
// on/off call wins.
func (s *PreferenceStore) SetAlert(userID int64, enabled bool) error {
	query := `INSERT OR REPLACE INTO alerts (user_id, enabled) VALUES (?, ?)`
	_, err := s.db.Exec(query, userID, boolToInt(enabled))
	return err
}

// AlertEnabled reports whether a user has extreme-weather alerts turned
// on. A missing row counts as disabled.
func (s *PreferenceStore) AlertEnabled(userID int64) (bool, error) {
	var enabled int
	query := `SELECT enabled FROM alerts WHERE user_id = ?`
	err := s.db.Get(&enabled, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return enabled != 0, nil
}

// EnabledAlertUsers returns every user with alerts turned on. Used by the
// startup reconciliation pass.
func (s *PreferenceStore) EnabledAlertUsers() ([]int64, error) {
	var users []int64
	query := `SELECT user_id FROM alerts WHERE enabled = 1 ORDER BY user_id`
	err := s.db.Select(&users, query)
	return users, err
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

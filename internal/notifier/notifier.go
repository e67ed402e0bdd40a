// Package notifier owns the scheduled delivery jobs: daily favorites
// weather and periodic extreme-weather checks.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/weatherbot/internal/scheduler"
	"github.com/user/weatherbot/internal/storage"
	"github.com/user/weatherbot/internal/weather"
	"github.com/user/weatherbot/pkg/logger"
)

// Sender is the minimal messaging surface the notifier needs.
// telegram.Bot implements it.
type Sender interface {
	SendText(chatID int64, text string) error
}

// WeatherService provides current conditions for delivery callbacks.
type WeatherService interface {
	Current(ctx context.Context, city string) (*weather.Current, error)
}

// Notifier wires the preference store, the scheduler and the messaging
// sink together. It derives all job keys and owns the reconciliation of
// the scheduler's job set against persisted preferences.
type Notifier struct {
	store     *storage.PreferenceStore
	sched     *scheduler.Scheduler
	weather   WeatherService
	sender    Sender
	alertCron string
}

// New creates a new notifier instance.
func New(store *storage.PreferenceStore, sched *scheduler.Scheduler, ws WeatherService, sender Sender, alertCron string) *Notifier {
	return &Notifier{
		store:     store,
		sched:     sched,
		weather:   ws,
		sender:    sender,
		alertCron: alertCron,
	}
}

// ScheduleNotify registers the daily favorites-delivery job for a
// (user, HH:MM) pair. A key collision means the job is already in place
// and is not an error.
func (n *Notifier) ScheduleNotify(userID int64, notifyTime string) error {
	spec, err := cronSpecForTime(notifyTime)
	if err != nil {
		return err
	}

	key := notifyJobKey(userID, notifyTime)
	err = n.sched.Schedule(key, spec, func() { n.DeliverFavorites(userID) })
	if errors.Is(err, scheduler.ErrJobExists) {
		logger.Debug().Str("key", key).Msg("Notify job already scheduled")
		return nil
	}
	return err
}

// UnscheduleNotify removes the favorites-delivery job for a (user, HH:MM)
// pair. A missing job is tolerated: the store row may exist without a job
// inside the non-atomic write window.
func (n *Notifier) UnscheduleNotify(userID int64, notifyTime string) {
	key := notifyJobKey(userID, notifyTime)
	if err := n.sched.Unschedule(key); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			logger.Debug().Str("key", key).Msg("Notify job was not scheduled")
			return
		}
		logger.Error().Err(err).Str("key", key).Msg("Failed to unschedule notify job")
	}
}

// EnableAlert registers the extreme-weather check job for a user. At most
// one alert job per user exists, enforced by key uniqueness.
func (n *Notifier) EnableAlert(userID int64) error {
	key := alertJobKey(userID)
	err := n.sched.Schedule(key, n.alertCron, func() { n.CheckExtremeWeather(userID) })
	if errors.Is(err, scheduler.ErrJobExists) {
		logger.Debug().Str("key", key).Msg("Alert job already scheduled")
		return nil
	}
	return err
}

// DisableAlert removes the extreme-weather check job for a user. Turning
// off an alert that was never on is not an error.
func (n *Notifier) DisableAlert(userID int64) {
	key := alertJobKey(userID)
	if err := n.sched.Unschedule(key); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			logger.Debug().Str("key", key).Msg("Alert job was not scheduled")
			return
		}
		logger.Error().Err(err).Str("key", key).Msg("Failed to unschedule alert job")
	}
}

// DeliverFavorites sends one current-weather message per favorite city.
// A failed fetch for one city degrades to a fixed failure string for that
// city only; the rest of the batch is unaffected.
func (n *Notifier) DeliverFavorites(userID int64) {
	cities, err := n.store.FavoriteCities(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load favorite cities")
		return
	}

	if len(cities) == 0 {
		if err := n.sender.SendText(userID, "Додайте улюблені міста через 'додати <місто>'."); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to send delivery hint")
		}
		return
	}

	ctx := context.Background()
	for _, city := range cities {
		text := ""
		current, err := n.weather.Current(ctx, city)
		if err != nil {
			logger.Debug().Err(err).Str("city", city).Msg("Favorites delivery fetch failed")
			text = weather.FailureMessage(city)
		} else {
			text = weather.FormatCurrent(current)
		}
		if err := n.sender.SendText(userID, text); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Str("city", city).Msg("Failed to send weather message")
		}
	}
}

// CheckExtremeWeather sends a warning for every favorite city whose
// current conditions cross the extreme threshold. The alert flag is
// re-checked defensively even though the job should not exist when it is
// off. Fetch failures skip the city silently.
func (n *Notifier) CheckExtremeWeather(userID int64) {
	enabled, err := n.store.AlertEnabled(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load alert setting")
		return
	}
	if !enabled {
		return
	}

	cities, err := n.store.FavoriteCities(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load favorite cities")
		return
	}

	ctx := context.Background()
	for _, city := range cities {
		current, err := n.weather.Current(ctx, city)
		if err != nil {
			logger.Debug().Err(err).Str("city", city).Msg("Extreme-weather fetch failed")
			continue
		}
		if !weather.IsExtreme(current.Temp, current.Description) {
			continue
		}
		warning := weather.ExtremeWarning(city, current.Temp, current.Description)
		if err := n.sender.SendText(userID, warning); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Str("city", city).Msg("Failed to send warning")
		}
	}
}

// Reconcile synchronizes the scheduler's job set with the persisted
// preferences: every stored notification time and enabled alert gets a
// job, and stale jobs whose records are gone are pruned. The pass is
// idempotent. It must run once before the bot accepts commands; jobs are
// not persisted, only their logical specification is.
func (n *Notifier) Reconcile() error {
	times, err := n.store.AllNotificationTimes()
	if err != nil {
		return fmt.Errorf("failed to scan notification times: %w", err)
	}
	alertUsers, err := n.store.EnabledAlertUsers()
	if err != nil {
		return fmt.Errorf("failed to scan alert users: %w", err)
	}

	desired := make(map[string]struct{}, len(times)+len(alertUsers))

	for _, nt := range times {
		desired[notifyJobKey(nt.UserID, nt.Time)] = struct{}{}
		if err := n.ScheduleNotify(nt.UserID, nt.Time); err != nil {
			logger.Error().Err(err).Int64("user_id", nt.UserID).Str("time", nt.Time).
				Msg("Failed to restore notify job")
		}
	}
	for _, userID := range alertUsers {
		desired[alertJobKey(userID)] = struct{}{}
		if err := n.EnableAlert(userID); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to restore alert job")
		}
	}

	// Prune jobs whose backing records are gone.
	pruned := 0
	for _, key := range n.sched.Keys() {
		if !strings.HasPrefix(key, "notify_") && !strings.HasPrefix(key, "alert_") {
			continue
		}
		if _, ok := desired[key]; ok {
			continue
		}
		if err := n.sched.Unschedule(key); err == nil {
			pruned++
		}
	}

	logger.Info().
		Int("notify_jobs", len(times)).
		Int("alert_jobs", len(alertUsers)).
		Int("pruned", pruned).
		Msg("Job set reconciled")
	return nil
}

// StartPeriodicReconcile registers the reconciliation pass itself as a
// recurring job, narrowing the window left by non-atomic store-write plus
// job-registration pairs.
func (n *Notifier) StartPeriodicReconcile(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return nil
	}
	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	return n.sched.Schedule(reconcileJobKey, spec, func() {
		if err := n.Reconcile(); err != nil {
			logger.Error().Err(err).Msg("Periodic reconciliation failed")
		}
	})
}

package notifier

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/weatherbot/internal/scheduler"
	"github.com/user/weatherbot/internal/storage"
	"github.com/user/weatherbot/internal/weather"
)

type fakeSender struct {
	messages []string
}

func (f *fakeSender) SendText(chatID int64, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

type fakeWeather struct {
	conditions map[string]*weather.Current
}

func (f *fakeWeather) Current(_ context.Context, city string) (*weather.Current, error) {
	if c, ok := f.conditions[city]; ok {
		return c, nil
	}
	return nil, weather.ErrFetchFailed
}

func newTestNotifier(t *testing.T, wx *fakeWeather) (*Notifier, *storage.PreferenceStore, *scheduler.Scheduler, *fakeSender) {
	t.Helper()

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := storage.NewPreferenceStore(db)
	sched := scheduler.New()
	sender := &fakeSender{}
	if wx == nil {
		wx = &fakeWeather{}
	}
	return New(store, sched, wx, sender, "0 */6 * * *"), store, sched, sender
}

func TestDeliverFavoritesEmptyList(t *testing.T) {
	n, _, _, sender := newTestNotifier(t, nil)

	n.DeliverFavorites(1)

	if len(sender.messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0], "додати") {
		t.Errorf("hint message missing add instruction: %q", sender.messages[0])
	}
}

func TestDeliverFavoritesPartialFailure(t *testing.T) {
	wx := &fakeWeather{conditions: map[string]*weather.Current{
		"Київ": {City: "Київ", Temp: 20, Description: "ясно"},
		// "Атлантида" fails.
	}}
	n, store, _, sender := newTestNotifier(t, wx)

	if err := store.AddFavoriteCity(1, "Київ"); err != nil {
		t.Fatal(err)
	}
	if err := store.AddFavoriteCity(1, "Атлантида"); err != nil {
		t.Fatal(err)
	}

	n.DeliverFavorites(1)

	// One real report plus one fixed failure string, not 1, not 0.
	if len(sender.messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0], "Погода в Київ") {
		t.Errorf("first message is not a report: %q", sender.messages[0])
	}
	if sender.messages[1] != weather.FailureMessage("Атлантида") {
		t.Errorf("second message = %q, want fixed failure string", sender.messages[1])
	}
}

func TestCheckExtremeWeather(t *testing.T) {
	wx := &fakeWeather{conditions: map[string]*weather.Current{
		"Харків": {City: "Харків", Temp: 35, Description: "ясно"},
		"Львів":  {City: "Львів", Temp: 18, Description: "хмарно"},
		// "Затока" fails and is silently skipped.
	}}
	n, store, _, sender := newTestNotifier(t, wx)

	for _, city := range []string{"Харків", "Львів", "Затока"} {
		if err := store.AddFavoriteCity(1, city); err != nil {
			t.Fatal(err)
		}
	}

	// Disabled: callback is a no-op even when conditions are extreme.
	n.CheckExtremeWeather(1)
	if len(sender.messages) != 0 {
		t.Fatalf("disabled check sent %d messages", len(sender.messages))
	}

	if err := store.SetAlert(1, true); err != nil {
		t.Fatal(err)
	}
	n.CheckExtremeWeather(1)

	if len(sender.messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(sender.messages))
	}
	msg := sender.messages[0]
	if !strings.Contains(msg, "Харків") || !strings.Contains(msg, "35") {
		t.Errorf("warning missing city or temperature: %q", msg)
	}
}

func TestScheduleNotifyIdempotent(t *testing.T) {
	n, _, sched, _ := newTestNotifier(t, nil)

	if err := n.ScheduleNotify(1, "15:00"); err != nil {
		t.Fatalf("first ScheduleNotify failed: %v", err)
	}
	// Key collision is absorbed, not surfaced.
	if err := n.ScheduleNotify(1, "15:00"); err != nil {
		t.Fatalf("second ScheduleNotify failed: %v", err)
	}
	if sched.Len() != 1 {
		t.Errorf("Len = %d, want 1", sched.Len())
	}
}

func TestScheduleNotifyRejectsMalformedTime(t *testing.T) {
	n, _, sched, _ := newTestNotifier(t, nil)

	for _, bad := range []string{"25:00", "abc", "12:60", "12", ""} {
		if err := n.ScheduleNotify(1, bad); err == nil {
			t.Errorf("ScheduleNotify(%q) accepted malformed time", bad)
		}
	}
	if sched.Len() != 0 {
		t.Errorf("malformed times registered %d jobs", sched.Len())
	}
}

func TestAlertJobLifecycle(t *testing.T) {
	n, _, sched, _ := newTestNotifier(t, nil)

	// Turning off an alert that was never on does not raise.
	n.DisableAlert(1)

	if err := n.EnableAlert(1); err != nil {
		t.Fatalf("EnableAlert failed: %v", err)
	}
	// Enabling twice keeps exactly one job.
	if err := n.EnableAlert(1); err != nil {
		t.Fatalf("second EnableAlert failed: %v", err)
	}
	if sched.Len() != 1 {
		t.Errorf("Len = %d, want 1", sched.Len())
	}

	n.DisableAlert(1)
	if sched.Len() != 0 {
		t.Errorf("Len = %d after disable, want 0", sched.Len())
	}
}

func TestReconcileRebuildsJobSet(t *testing.T) {
	n, store, sched, _ := newTestNotifier(t, nil)

	// N=3 persisted notification times, M=2 enabled alert users.
	if err := store.AddNotificationTime(1, "08:00"); err != nil {
		t.Fatal(err)
	}
	if err := store.AddNotificationTime(1, "20:00"); err != nil {
		t.Fatal(err)
	}
	if err := store.AddNotificationTime(2, "08:00"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAlert(1, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAlert(2, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetAlert(3, false); err != nil {
		t.Fatal(err)
	}

	if err := n.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if sched.Len() != 5 {
		t.Fatalf("Len = %d, want 5 (3 notify + 2 alert)", sched.Len())
	}

	// Running again produces no duplicates.
	if err := n.Reconcile(); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	if sched.Len() != 5 {
		t.Errorf("Len = %d after rerun, want 5", sched.Len())
	}
}

func TestReconcilePrunesStaleJobs(t *testing.T) {
	n, store, sched, _ := newTestNotifier(t, nil)

	if err := store.AddNotificationTime(1, "08:00"); err != nil {
		t.Fatal(err)
	}
	if err := n.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// Record deleted out-of-band; the job is now stale.
	if _, err := store.DeleteNotifications(1); err != nil {
		t.Fatal(err)
	}
	if sched.Len() != 1 {
		t.Fatalf("precondition: Len = %d, want 1", sched.Len())
	}

	if err := n.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if sched.Len() != 0 {
		t.Errorf("Len = %d after prune, want 0", sched.Len())
	}
}

func TestParseNotifyTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"15:00", "15:00", false},
		{"9:5", "09:05", false},
		{"0:00", "00:00", false},
		{"23:59", "23:59", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"-1:00", "", true},
		{"abc", "", true},
		{"12", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, _, _, err := ParseNotifyTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseNotifyTime(%q) accepted invalid input", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNotifyTime(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNotifyTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

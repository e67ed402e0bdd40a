package scheduler

import (
	"errors"
	"sort"
	"testing"
)

func TestScheduleRejectsDuplicateKey(t *testing.T) {
	s := New()

	if err := s.Schedule("notify_1_15:00", "0 15 * * *", func() {}); err != nil {
		t.Fatalf("first Schedule failed: %v", err)
	}
	err := s.Schedule("notify_1_15:00", "0 15 * * *", func() {})
	if !errors.Is(err, ErrJobExists) {
		t.Fatalf("second Schedule error = %v, want ErrJobExists", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestScheduleRejectsInvalidSpec(t *testing.T) {
	s := New()

	if err := s.Schedule("bad", "25 99 * *", func() {}); err == nil {
		t.Fatal("Schedule accepted an invalid trigger spec")
	}
	if s.Has("bad") {
		t.Error("invalid spec left a registered key behind")
	}
}

func TestUnschedule(t *testing.T) {
	s := New()

	if err := s.Schedule("alert_7", "0 */6 * * *", func() {}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := s.Unschedule("alert_7"); err != nil {
		t.Fatalf("Unschedule failed: %v", err)
	}
	if s.Has("alert_7") {
		t.Error("key still registered after Unschedule")
	}

	// Unscheduling again fails with the typed error.
	if err := s.Unschedule("alert_7"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("error = %v, want ErrJobNotFound", err)
	}
}

func TestUnscheduleUnknownKey(t *testing.T) {
	s := New()
	if err := s.Unschedule("never_registered"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("error = %v, want ErrJobNotFound", err)
	}
}

func TestKeysSnapshot(t *testing.T) {
	s := New()

	want := []string{"alert_1", "notify_1_08:00", "notify_2_19:30"}
	for _, key := range want {
		if err := s.Schedule(key, "0 8 * * *", func() {}); err != nil {
			t.Fatalf("Schedule(%s) failed: %v", key, err)
		}
	}

	got := s.Keys()
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegisterBeforeStart(t *testing.T) {
	s := New()

	// Registration before Start must be accepted; triggers just stay idle.
	if err := s.Schedule("notify_1_00:00", "0 0 * * *", func() {}); err != nil {
		t.Fatalf("Schedule before Start failed: %v", err)
	}
	s.Start()
	defer s.Stop()

	if !s.Has("notify_1_00:00") {
		t.Error("job lost across Start")
	}
}

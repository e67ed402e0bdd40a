package notifier

import (
	"fmt"
	"strconv"
	"strings"
)

// Job keys are derived deterministically so that re-registration is
// blocked by key collision and cancellation needs no stored handle:
// notify jobs from (user, time), alert jobs from the user alone.

const reconcileJobKey = "reconcile"

func notifyJobKey(userID int64, notifyTime string) string {
	return fmt.Sprintf("notify_%d_%s", userID, notifyTime)
}

func alertJobKey(userID int64) string {
	return fmt.Sprintf("alert_%d", userID)
}

// ParseNotifyTime validates an HH:MM string and returns its zero-padded
// normalization together with the hour and minute.
func ParseNotifyTime(s string) (normalized string, hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return "", 0, 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid time %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), hour, minute, nil
}

// cronSpecForTime converts an "HH:MM" string into a daily cron trigger.
func cronSpecForTime(notifyTime string) (string, error) {
	_, hour, minute, err := ParseNotifyTime(notifyTime)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

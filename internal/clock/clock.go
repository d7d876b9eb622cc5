// Package clock holds the date and time-of-day conventions used across
// the scheduling code: dates travel as "YYYY-MM-DD" strings and times as
// "HH:MM" strings, so lexicographic order matches chronological order and
// SQL range predicates are plain string comparisons.
package clock

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	HMLayout   = "15:04"
)

// ParseDate parses a calendar date in DateLayout form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func ValidHM(s string) bool {
	_, err := time.Parse(HMLayout, s)
	return err == nil
}

// MinutesOf converts "HH:MM" to minutes since midnight. Callers validate
// with ValidHM first; malformed input maps to 0.
func MinutesOf(hm string) int {
	t, err := time.Parse(HMLayout, hm)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// HM renders minutes since midnight as "HH:MM", clamped to the day.
func HM(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 24*60-1 {
		minutes = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes shifts an "HH:MM" value forward, clamping at 23:59.
func AddMinutes(hm string, minutes int) string {
	return HM(MinutesOf(hm) + minutes)
}

// Combine joins a date and a time-of-day into an ISO-8601 local datetime,
// the shape the frontend's date pickers expect.
func Combine(date, hm string) string {
	return date + "T" + hm + ":00"
}

// Today returns the current date in server-local time.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DateOf and HMOf project a time.Time onto the wire formats.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

func HMOf(t time.Time) string {
	return t.Format(HMLayout)
}

// Package gestation implements the date arithmetic behind the dashboard:
// Naegele's rule for the expected delivery date and the weeks+days
// gestational age derived from it. Every function is pure.
package gestation

import (
	"fmt"
	"time"
)

const (
	// TermDays is the nominal length of a pregnancy counted from the LMP.
	TermDays = 280
	// TermWeeks is TermDays expressed in weeks.
	TermWeeks = TermDays / 7

	// DateLayout is the wire and storage format for calendar dates.
	DateLayout = "2006-01-02"
)

// Age is a gestational age. All fields are >= 0.
type Age struct {
	Weeks     int `json:"weeks"`
	Days      int `json:"days"`
	TotalDays int `json:"totalDays"`
}

// String renders the age as "{weeks} weeks, {days} days".
func (a Age) String() string {
	return fmt.Sprintf("%d weeks, %d days", a.Weeks, a.Days)
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EDDFromLMP returns the expected delivery date, LMP + 280 days. Future or
// otherwise implausible LMP dates are not rejected.
func EDDFromLMP(lmp time.Time) time.Time {
	return lmp.AddDate(0, 0, TermDays)
}

// AgeAt returns the gestational age on the calendar date of now for a
// pregnancy due on edd. The result is floored at zero; past the due date it
// keeps growing beyond 40 weeks.
func AgeAt(edd, now time.Time) Age {
	daysRemaining := civilDay(edd) - civilDay(now)
	current := TermDays - daysRemaining

	if current < 0 {
		return Age{}
	}
	return Age{
		Weeks:     current / 7,
		Days:      current % 7,
		TotalDays: current,
	}
}

// Week is one gestational week, numbered from 1.
type Week struct {
	Number int
	Start  time.Time
	End    time.Time
}

// Weeks lists the 40 gestational weeks of a pregnancy due on edd.
func Weeks(edd time.Time) []Week {
	lmp := edd.AddDate(0, 0, -TermDays)
	weeks := make([]Week, 0, TermWeeks)
	for n := 1; n <= TermWeeks; n++ {
		start := lmp.AddDate(0, 0, (n-1)*7)
		weeks = append(weeks, Week{
			Number: n,
			Start:  start,
			End:    start.AddDate(0, 0, 6),
		})
	}
	return weeks
}

// civilDay counts days since the Unix epoch for t's calendar date in t's
// own location, ignoring the time of day.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

package scheduler

import "time"

// Trigger computes when a job should next fire.
type Trigger interface {
	Next(after time.Time) time.Time
}

// Interval fires at a fixed period.
type Interval struct {
	Every time.Duration
}

func (i Interval) Next(after time.Time) time.Time {
	return after.Add(i.Every)
}

// DailyAt fires once a day at a wall-clock time (UTC). Weekday, when set,
// restricts firing to that day of the week.
type DailyAt struct {
	Hour    int
	Minute  int
	Weekday *time.Weekday
}

func (d DailyAt) Next(after time.Time) time.Time {
	after = after.UTC()
	next := time.Date(after.Year(), after.Month(), after.Day(), d.Hour, d.Minute, 0, 0, time.UTC)
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	if d.Weekday != nil {
		for next.Weekday() != *d.Weekday {
			next = next.AddDate(0, 0, 1)
		}
	}
	return next
}

package models

import "time"

// DayKeyLayout is the date format used as the daily_stats primary key.
const DayKeyLayout = "2006-01-02"

// DailyStatsRow is one day bucket of accumulated per-status seconds.
type DailyStatsRow struct {
	Date             string `json:"date"`
	CorrectSeconds   int64  `json:"correct_seconds"`
	IncorrectSeconds int64  `json:"incorrect_seconds"`
	UnknownSeconds   int64  `json:"unknown_seconds"`
}

// Day parses the row's date key.
func (r DailyStatsRow) Day() (time.Time, error) {
	return time.Parse(DayKeyLayout, r.Date)
}

// TotalSeconds is the sum across all status buckets.
func (r DailyStatsRow) TotalSeconds() int64 {
	return r.CorrectSeconds + r.IncorrectSeconds + r.UnknownSeconds
}

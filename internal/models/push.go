package models

import (
	"fmt"
	"strconv"
	"time"
)

// HoursPerDay is the number of hourly buckets tracked per calendar day.
const HoursPerDay = 24

// TapLogKey is the store key holding the JSON-encoded tap log.
const TapLogKey = "tapTimes"

// DateLayout is the calendar-day format used in store keys and the UI.
const DateLayout = "2006-01-02"

// PushKey returns the store key for one (date, hour) push counter.
// The hour is not zero padded.
func PushKey(date string, hour int) string {
	return date + "-" + strconv.Itoa(hour)
}

// DateString formats t as a local calendar day.
func DateString(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar day in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DayCounts holds the raw push count for every hour of a day.
type DayCounts [HoursPerDay]int

// Total returns the sum of all hourly counts.
func (c DayCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Percentages returns each hour's share of the day's total. An empty day
// yields all zeros.
func (c DayCounts) Percentages() [HoursPerDay]float64 {
	var pct [HoursPerDay]float64
	total := c.Total()
	if total == 0 {
		return pct
	}
	for h, n := range c {
		pct[h] = float64(n*100) / float64(total)
	}
	return pct
}

// Peak returns the busiest hour and its count. Ties go to the earliest hour.
func (c DayCounts) Peak() (hour, count int) {
	for h, n := range c {
		if n > count {
			hour, count = h, n
		}
	}
	return hour, count
}

// DayStats is the derived view of one day's pushes.
type DayStats struct {
	Date        string
	Counts      DayCounts
	Percentages [HoursPerDay]float64
	Total       int
}

// NewDayStats derives percentages and totals from raw counts.
func NewDayStats(date string, counts DayCounts) DayStats {
	return DayStats{
		Date:        date,
		Counts:      counts,
		Percentages: counts.Percentages(),
		Total:       counts.Total(),
	}
}

// ParsePushKey splits a push counter key into its day and hour.
func ParsePushKey(key string) (date string, hour int, ok bool) {
	if len(key) < len(DateLayout)+2 || key[len(DateLayout)] != '-' {
		return "", 0, false
	}
	date = key[:len(DateLayout)]
	if _, err := ParseDate(date); err != nil {
		return "", 0, false
	}
	hour, err := strconv.Atoi(key[len(DateLayout)+1:])
	if err != nil || hour < 0 || hour >= HoursPerDay {
		return "", 0, false
	}
	return date, hour, true
}

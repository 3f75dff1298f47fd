package leaverequest

import "time"

// Working-day constants for duration computation. A standard day runs
// 08:00-17:00 with a fixed 12:00-13:00 lunch break, i.e. 8 net hours.
const (
	workDayStartMinute = 8 * 60
	workDayEndMinute   = 17 * 60
	lunchStartMinute   = 12 * 60
	lunchEndMinute     = 13 * 60
	workDayNetHours    = 8.0
)

// DurationDays computes the fractional working-day length of a leave.
//
// When both startTime and endTime parse as HH:mm, each calendar day in the
// range contributes its net working hours: the first day starts at startTime,
// the last day ends at endTime, days in between use the full default window,
// and the lunch-break overlap is subtracted per day (clamped at zero). The
// sum is divided by the 8-hour standard day.
//
// When either time is missing or malformed the computation falls back to
// whole-day counting: endDate - startDate + 1.
func DurationDays(startDate, endDate time.Time, startTime, endTime *string) float64 {
	wholeDays := float64(daysBetween(startDate, endDate) + 1)

	startMin, okStart := parseClockMinutes(startTime)
	endMin, okEnd := parseClockMinutes(endTime)
	if !okStart || !okEnd {
		return wholeDays
	}

	totalDays := daysBetween(startDate, endDate)
	var netHours float64
	for day := 0; day <= totalDays; day++ {
		winStart := workDayStartMinute
		winEnd := workDayEndMinute
		if day == 0 {
			winStart = startMin
		}
		if day == totalDays {
			winEnd = endMin
		}
		netHours += netWindowHours(winStart, winEnd)
	}

	return netHours / workDayNetHours
}

// netWindowHours returns the working hours in the window [startMin, endMin)
// minus its overlap with the lunch break, never negative.
func netWindowHours(startMin, endMin int) float64 {
	gross := endMin - startMin
	if gross <= 0 {
		return 0
	}

	lunchOverlap := overlapMinutes(startMin, endMin, lunchStartMinute, lunchEndMinute)
	net := gross - lunchOverlap
	if net < 0 {
		net = 0
	}
	return float64(net) / 60.0
}

func overlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}

// parseClockMinutes parses "HH:mm" into minutes-of-day. Reports false for nil
// or malformed values so callers can fall back to whole-day counting.
func parseClockMinutes(v *string) (int, bool) {
	if v == nil || *v == "" {
		return 0, false
	}
	t, err := time.Parse("15:04", *v)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// daysBetween counts calendar days between two dates, ignoring any time
// component.
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

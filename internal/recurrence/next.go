package recurrence

import "time"

// Next returns the occurrence that follows from. It is a pure, total
// function: a configuration that does not match kind, or that carries out of
// range values, falls back to defaults derived from from.
//
//   - daily:   from + 1 day
//   - weekly:  first day in (from, from+7] whose weekday is configured,
//     or from + 7 days when no weekday is configured
//   - monthly: target day in the next calendar month, clamped to its length;
//     LastDay always resolves to the last day of the next month
//   - yearly:  target month/day in the next calendar year, clamped
//     (Feb 29 becomes Feb 28 in a non-leap year)
func Next(kind Kind, cfg Config, from time.Time) time.Time {
	from = DateOf(from)

	switch c := resolve(kind, cfg).(type) {
	case DailyConfig:
		return from.AddDate(0, 0, 1)
	case WeeklyConfig:
		return nextWeekly(c, from)
	case MonthlyConfig:
		return nextMonthly(c, from)
	case YearlyConfig:
		return nextYearly(c, from)
	default:
		return nextMonthly(MonthlyConfig{}, from)
	}
}

// First returns the first occurrence on or after start. It is used to seed
// next_generate for a new template.
func First(kind Kind, cfg Config, start time.Time) time.Time {
	start = DateOf(start)

	switch c := resolve(kind, cfg).(type) {
	case DailyConfig:
		return start
	case WeeklyConfig:
		days := weekdaySet(c.Weekdays)
		if len(days) == 0 {
			return start
		}
		for i := 0; i < 7; i++ {
			d := start.AddDate(0, 0, i)
			if days[d.Weekday()] {
				return d
			}
		}
		return start
	case MonthlyConfig:
		if candidate := monthlyDate(c, start.Year(), start.Month(), start.Day()); !candidate.Before(start) {
			return candidate
		}
		return nextMonthly(c, start)
	case YearlyConfig:
		month, day := yearlyTarget(c, start)
		if candidate := clampedDate(start.Year(), month, day); !candidate.Before(start) {
			return candidate
		}
		return nextYearly(c, start)
	default:
		return start
	}
}

// Upcoming returns the n occurrences that follow from, in order.
func Upcoming(kind Kind, cfg Config, from time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	dates := make([]time.Time, 0, n)
	d := DateOf(from)
	for i := 0; i < n; i++ {
		d = Next(kind, cfg, d)
		dates = append(dates, d)
	}
	return dates
}

func nextWeekly(c WeeklyConfig, from time.Time) time.Time {
	days := weekdaySet(c.Weekdays)
	if len(days) == 0 {
		return from.AddDate(0, 0, 7)
	}
	// Every weekday appears within seven steps, so the scan always terminates.
	for i := 1; i <= 7; i++ {
		d := from.AddDate(0, 0, i)
		if days[d.Weekday()] {
			return d
		}
	}
	return from.AddDate(0, 0, 7)
}

func nextMonthly(c MonthlyConfig, from time.Time) time.Time {
	// Day 1 avoids time.Date normalizing e.g. Jan 31 + 1 month into March.
	next := time.Date(from.Year(), from.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return monthlyDate(c, next.Year(), next.Month(), from.Day())
}

func monthlyDate(c MonthlyConfig, year int, month time.Month, anchorDay int) time.Time {
	if c.LastDay {
		return time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, time.UTC)
	}
	day := c.Day
	if day < 1 || day > 31 {
		day = anchorDay
	}
	return clampedDate(year, month, day)
}

func nextYearly(c YearlyConfig, from time.Time) time.Time {
	month, day := yearlyTarget(c, from)
	return clampedDate(from.Year()+1, month, day)
}

func yearlyTarget(c YearlyConfig, anchor time.Time) (time.Month, int) {
	month := c.Month
	if month < time.January || month > time.December {
		month = anchor.Month()
	}
	day := c.Day
	if day < 1 || day > 31 {
		day = anchor.Day()
	}
	return month, day
}

func clampedDate(year int, month time.Month, day int) time.Time {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func weekdaySet(weekdays []time.Weekday) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			set[wd] = true
		}
	}
	return set
}

package holiday

import (
	"context"
	"fmt"
	"time"
)

// Calendar is a fixed holiday list, optionally treating Saturdays and
// Sundays as holidays too.
type Calendar struct {
	dates    map[string]struct{}
	weekends bool
}

// NewCalendar builds a calendar from civil dates.
func NewCalendar(dates []time.Time, weekends bool) *Calendar {
	c := &Calendar{dates: make(map[string]struct{}, len(dates)), weekends: weekends}
	for _, d := range dates {
		c.dates[d.Format(dateLayout)] = struct{}{}
	}
	return c
}

// ParseDates parses YYYY-MM-DD strings.
func ParseDates(values []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", v, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// IsHoliday implements Checker.
func (c *Calendar) IsHoliday(_ context.Context, date time.Time) bool {
	if c.weekends {
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
	}
	_, ok := c.dates[date.Format(dateLayout)]
	return ok
}

// Len returns the number of fixed dates.
func (c *Calendar) Len() int { return len(c.dates) }

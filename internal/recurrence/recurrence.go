// Package recurrence computes occurrence dates for recurring expense templates.
//
// All dates handled here are civil dates: midnight UTC of the calendar day.
// Use DateOf to normalize a timestamp before comparing or storing it.
package recurrence

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for civil dates.
const DateLayout = "2006-01-02"

// Kind is the frequency kind of a recurring template.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDaily, KindWeekly, KindMonthly, KindYearly:
		return true
	}
	return false
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown frequency kind %q", s)
	}
	return k, nil
}

// Config is the frequency configuration of a template. There is exactly one
// variant per Kind: DailyConfig, WeeklyConfig, MonthlyConfig and YearlyConfig.
type Config interface {
	Kind() Kind
	sealed()
}

// DailyConfig repeats every day. It has no parameters.
type DailyConfig struct{}

// WeeklyConfig repeats on the listed weekdays. An empty list means every
// seven days from the anchor date.
type WeeklyConfig struct {
	Weekdays []time.Weekday
}

// MonthlyConfig repeats on Day of every month, clamped to the month length.
// LastDay overrides Day and always targets the last day of the month.
type MonthlyConfig struct {
	Day     int
	LastDay bool
}

// YearlyConfig repeats once a year on Month/Day, clamped to the month length.
type YearlyConfig struct {
	Month time.Month
	Day   int
}

func (DailyConfig) Kind() Kind   { return KindDaily }
func (WeeklyConfig) Kind() Kind  { return KindWeekly }
func (MonthlyConfig) Kind() Kind { return KindMonthly }
func (YearlyConfig) Kind() Kind  { return KindYearly }

func (DailyConfig) sealed()   {}
func (WeeklyConfig) sealed()  {}
func (MonthlyConfig) sealed() {}
func (YearlyConfig) sealed()  {}

// DefaultConfig returns the configuration used when a template of the given
// kind carries no usable configuration. Monthly and yearly defaults take their
// day and month from the anchor date.
func DefaultConfig(kind Kind) Config {
	switch kind {
	case KindDaily:
		return DailyConfig{}
	case KindWeekly:
		return WeeklyConfig{}
	case KindYearly:
		return YearlyConfig{}
	default:
		return MonthlyConfig{}
	}
}

// DateOf truncates t to its calendar day, expressed as midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Validate reports configuration errors. It is meant for user input; Next
// and First never fail and fall back to defaults instead.
func Validate(kind Kind, cfg Config) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown frequency kind %q", kind)
	}
	if cfg == nil {
		return nil
	}
	cfg = deref(cfg)
	if cfg.Kind() != kind {
		return fmt.Errorf("%s configuration given for a %s template", cfg.Kind(), kind)
	}

	switch c := cfg.(type) {
	case WeeklyConfig:
		for _, wd := range c.Weekdays {
			if wd < time.Sunday || wd > time.Saturday {
				return fmt.Errorf("weekday %d out of range 0-6", wd)
			}
		}
	case MonthlyConfig:
		if !c.LastDay && (c.Day < 1 || c.Day > 31) {
			return fmt.Errorf("day of month %d out of range 1-31", c.Day)
		}
	case YearlyConfig:
		if c.Month < time.January || c.Month > time.December {
			return fmt.Errorf("month %d out of range 1-12", c.Month)
		}
		if c.Day < 1 || c.Day > DaysIn(2024, c.Month) {
			return fmt.Errorf("day %d out of range for %s", c.Day, c.Month)
		}
	}
	return nil
}

// resolve picks the configuration variant that matches kind, falling back to
// the kind's default when cfg is missing or of another variant. Unknown kinds
// are treated as monthly.
func resolve(kind Kind, cfg Config) Config {
	if !kind.Valid() {
		kind = KindMonthly
	}
	if cfg != nil {
		cfg = deref(cfg)
		if cfg.Kind() == kind {
			return cfg
		}
	}
	return DefaultConfig(kind)
}

func deref(cfg Config) Config {
	switch c := cfg.(type) {
	case *DailyConfig:
		if c != nil {
			return *c
		}
		return DailyConfig{}
	case *WeeklyConfig:
		if c != nil {
			return *c
		}
		return WeeklyConfig{}
	case *MonthlyConfig:
		if c != nil {
			return *c
		}
		return MonthlyConfig{}
	case *YearlyConfig:
		if c != nil {
			return *c
		}
		return YearlyConfig{}
	}
	return cfg
}

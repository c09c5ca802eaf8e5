// Package holiday answers whether a calendar date is a holiday.
//
// The generator only depends on Checker. Implementations must absorb their
// own failures and report "not a holiday" rather than stall a batch run.
package holiday

import (
	"context"
	"time"
)

// Checker reports whether date is a holiday. Implementations never fail;
// an unavailable source answers false.
type Checker interface {
	IsHoliday(ctx context.Context, date time.Time) bool
}

// Namer is implemented by checkers that know what a holiday is called.
type Namer interface {
	Name(ctx context.Context, date time.Time) (string, bool)
}

// NameOf returns the name c gives the holiday on date, or "" when c cannot
// name it.
func NameOf(ctx context.Context, c Checker, date time.Time) string {
	n, ok := c.(Namer)
	if !ok {
		return ""
	}
	name, _ := n.Name(ctx, date)
	return name
}

// Dates maps a YYYY-MM-DD date to the holiday's name.
type Dates map[string]string

// Provider fetches the holidays of a whole year from an external source.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// Holidays returns every holiday in year.
	Holidays(ctx context.Context, year int) (Dates, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, date time.Time) bool

// IsHoliday calls f.
func (f CheckerFunc) IsHoliday(ctx context.Context, date time.Time) bool { return f(ctx, date) }

// None never reports a holiday.
var None Checker = CheckerFunc(func(context.Context, time.Time) bool { return false })

// Multi reports a holiday when any of its checkers does.
type Multi []Checker

// IsHoliday implements Checker.
func (m Multi) IsHoliday(ctx context.Context, date time.Time) bool {
	for _, c := range m {
		if c != nil && c.IsHoliday(ctx, date) {
			return true
		}
	}
	return false
}

// Name returns the first name any of its checkers gives date.
func (m Multi) Name(ctx context.Context, date time.Time) (string, bool) {
	for _, c := range m {
		if c == nil {
			continue
		}
		if name := NameOf(ctx, c, date); name != "" {
			return name, true
		}
	}
	return "", false
}

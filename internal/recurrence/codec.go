package recurrence

import (
	"encoding/json"
	"fmt"
	"time"
)

// wireConfig is the JSON shape of a Config. The kind field selects the variant.
type wireConfig struct {
	Kind     Kind  `json:"kind"`
	Weekdays []int `json:"weekdays,omitempty"`
	Day      int   `json:"day,omitempty"`
	LastDay  bool  `json:"last_day,omitempty"`
	Month    int   `json:"month,omitempty"`
}

// Encode serializes cfg as self-describing JSON, e.g.
// {"kind":"weekly","weekdays":[1,3,5]}.
func Encode(cfg Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil frequency configuration")
	}
	var w wireConfig
	switch c := deref(cfg).(type) {
	case DailyConfig:
		w.Kind = KindDaily
	case WeeklyConfig:
		w.Kind = KindWeekly
		for _, wd := range c.Weekdays {
			w.Weekdays = append(w.Weekdays, int(wd))
		}
	case MonthlyConfig:
		w.Kind = KindMonthly
		w.Day = c.Day
		w.LastDay = c.LastDay
	case YearlyConfig:
		w.Kind = KindYearly
		w.Month = int(c.Month)
		w.Day = c.Day
	default:
		return nil, fmt.Errorf("unsupported frequency configuration %T", cfg)
	}
	return json.Marshal(w)
}

// Decode parses JSON produced by Encode. Values are not range-checked; use
// Validate for user input.
func Decode(data []byte) (Config, error) {
	var w wireConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding frequency configuration: %w", err)
	}
	return w.config()
}

func (w wireConfig) config() (Config, error) {
	switch w.Kind {
	case KindDaily:
		return DailyConfig{}, nil
	case KindWeekly:
		c := WeeklyConfig{}
		for _, wd := range w.Weekdays {
			c.Weekdays = append(c.Weekdays, time.Weekday(wd))
		}
		return c, nil
	case KindMonthly:
		return MonthlyConfig{Day: w.Day, LastDay: w.LastDay}, nil
	case KindYearly:
		return YearlyConfig{Month: time.Month(w.Month), Day: w.Day}, nil
	default:
		return nil, fmt.Errorf("unknown frequency kind %q", w.Kind)
	}
}

// Params is the flat form of a configuration accepted from API requests.
type Params struct {
	Weekdays []int `json:"weekdays,omitempty"`
	Day      int   `json:"day,omitempty"`
	LastDay  bool  `json:"last_day,omitempty"`
	Month    int   `json:"month,omitempty"`
}

// Build assembles and validates the configuration variant for kind. Monthly
// and yearly fields left unset are taken from anchor, usually the start date.
func Build(kind Kind, p Params, anchor time.Time) (Config, error) {
	switch kind {
	case KindMonthly:
		if p.Day == 0 && !p.LastDay {
			p.Day = anchor.Day()
		}
	case KindYearly:
		if p.Month == 0 {
			p.Month = int(anchor.Month())
		}
		if p.Day == 0 {
			p.Day = anchor.Day()
		}
	}

	cfg, err := wireConfig{
		Kind:     kind,
		Weekdays: p.Weekdays,
		Day:      p.Day,
		LastDay:  p.LastDay,
		Month:    p.Month,
	}.config()
	if err != nil {
		return nil, err
	}
	if err := Validate(kind, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package holiday

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const dateLayout = "2006-01-02"

// Oracle answers holiday questions from a Provider, caching each year.
// Provider failures are logged and treated as "not a holiday"; they are not
// cached, so the next lookup retries.
type Oracle struct {
	provider Provider
	cache    *Cache
	group    singleflight.Group
	log      *zap.SugaredLogger
	timeout  time.Duration
}

// NewOracle wires an Oracle. timeout bounds each provider fetch; zero
// leaves it to the caller's context.
func NewOracle(provider Provider, cache *Cache, log *zap.SugaredLogger, timeout time.Duration) *Oracle {
	if cache == nil {
		cache = NewCache(0, 0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Oracle{
		provider: provider,
		cache:    cache,
		log:      log,
		timeout:  timeout,
	}
}

// IsHoliday implements Checker.
func (o *Oracle) IsHoliday(ctx context.Context, date time.Time) bool {
	dates, err := o.year(ctx, date.Year())
	if err != nil {
		o.log.Warnw("holiday lookup failed, assuming working day",
			"provider", o.provider.Name(),
			"date", date.Format(dateLayout),
			"error", err,
		)
		return false
	}
	_, ok := dates[date.Format(dateLayout)]
	return ok
}

// Name returns the holiday name for date, if any.
func (o *Oracle) Name(ctx context.Context, date time.Time) (string, bool) {
	dates, err := o.year(ctx, date.Year())
	if err != nil {
		return "", false
	}
	name, ok := dates[date.Format(dateLayout)]
	return name, ok
}

func (o *Oracle) year(ctx context.Context, year int) (Dates, error) {
	if dates, ok := o.cache.Get(year); ok {
		return dates, nil
	}

	v, err, _ := o.group.Do(strconv.Itoa(year), func() (any, error) {
		if dates, ok := o.cache.Get(year); ok {
			return dates, nil
		}
		fetchCtx := ctx
		if o.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, o.timeout)
			defer cancel()
		}
		dates, err := o.provider.Holidays(fetchCtx, year)
		if err != nil {
			return nil, err
		}
		o.cache.Set(year, dates)
		o.log.Debugw("holiday year cached", "provider", o.provider.Name(), "year", year, "count", len(dates))
		return dates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Dates), nil
}

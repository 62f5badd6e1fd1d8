// Package daterange canonicalizes report time windows. Every metric builder
// resolves its window here so date semantics never drift between endpoints.
package daterange

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidRange marks malformed or inverted date inputs. Resolution fails
// before any aggregation query runs.
var ErrInvalidRange = errors.New("invalid_range")

// Period presets for the daily reports.
const (
	PeriodToday = "today"
	Period7D    = "7d"
	Period30D   = "30d"
)

const ymdLayout = "2006-01-02"

var (
	ymdPattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
)

// Range is a resolved half-open day window. FromStart and ToStart are
// local midnight of the first and last included day; ToExclusive is the
// midnight after ToStart.
type Range struct {
	FromStart   time.Time
	ToStart     time.Time
	ToExclusive time.Time
	FromStr     string
	ToStr       string
}

// Days returns the number of calendar days the range covers.
func (r Range) Days() int {
	return int(r.ToExclusive.Sub(r.FromStart).Hours() / 24)
}

// MonthRange extends Range with the compact month tag used in invoice
// numbers, e.g. "202509" for a September 2025 window.
type MonthRange struct {
	Range
	InvoiceMonthTag string
}

// ParseYMD parses a strict zero-padded YYYY-MM-DD string to local midnight.
func ParseYMD(value string) (time.Time, error) {
	if !ymdPattern.MatchString(value) {
		return time.Time{}, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidRange)
	}
	parsed, err := time.ParseInLocation(ymdLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date value", ErrInvalidRange)
	}
	return parsed, nil
}

// FormatYMD renders a zero-padded YYYY-MM-DD string.
func FormatYMD(t time.Time) string {
	return t.Format(ymdLayout)
}

// ResolvePeriod resolves {period, from, to} into a canonical Range.
// Explicit from/to take precedence over the preset; with no inputs the
// window defaults to the last 30 days ending today.
func ResolvePeriod(period, from, to string, now time.Time) (Range, error) {
	if from != "" && to != "" {
		fromStart, err := ParseYMD(from)
		if err != nil {
			return Range{}, err
		}
		toStart, err := ParseYMD(to)
		if err != nil {
			return Range{}, err
		}
		if fromStart.After(toStart) {
			return Range{}, fmt.Errorf("%w: from must be <= to", ErrInvalidRange)
		}
		return build(fromStart, toStart), nil
	}

	today := startOfDay(now)
	switch period {
	case PeriodToday:
		return build(today, today), nil
	case Period7D:
		return build(today.AddDate(0, 0, -6), today), nil
	default:
		return build(today.AddDate(0, 0, -29), today), nil
	}
}

// ResolveMonth resolves {month, from, to} for reconciliation. A YYYY-MM
// month wins, then explicit from/to, then the current calendar month.
func ResolveMonth(month, from, to string, now time.Time) (MonthRange, error) {
	var fromStart, toStart time.Time

	switch {
	case month != "":
		m := monthPattern.FindStringSubmatch(month)
		if m == nil {
			return MonthRange{}, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidRange)
		}
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return MonthRange{}, fmt.Errorf("%w: invalid month value", ErrInvalidRange)
		}
		fromStart = parsed
		toStart = lastDayOfMonth(fromStart)
	case from != "" && to != "":
		var err error
		fromStart, err = ParseYMD(from)
		if err != nil {
			return MonthRange{}, err
		}
		toStart, err = ParseYMD(to)
		if err != nil {
			return MonthRange{}, err
		}
		if fromStart.After(toStart) {
			return MonthRange{}, fmt.Errorf("%w: from must be <= to", ErrInvalidRange)
		}
	default:
		today := startOfDay(now)
		fromStart = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.Local)
		toStart = lastDayOfMonth(fromStart)
	}

	return MonthRange{
		Range:           build(fromStart, toStart),
		InvoiceMonthTag: toStart.Format("200601"),
	}, nil
}

func build(fromStart, toStart time.Time) Range {
	return Range{
		FromStart:   fromStart,
		ToStart:     toStart,
		ToExclusive: toStart.AddDate(0, 0, 1),
		FromStr:     FormatYMD(fromStart),
		ToStr:       FormatYMD(toStart),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func lastDayOfMonth(firstOfMonth time.Time) time.Time {
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month()+1, 0, 0, 0, 0, 0, time.Local)
}

// EachDay returns every calendar day string in [FromStart, ToExclusive).
func (r Range) EachDay() []string {
	days := make([]string, 0, r.Days())
	for cur := r.FromStart; cur.Before(r.ToExclusive); cur = cur.AddDate(0, 0, 1) {
		days = append(days, FormatYMD(cur))
	}
	return days
}

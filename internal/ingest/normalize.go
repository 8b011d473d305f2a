package ingest

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount      = errors.New("empty amount")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountOutOfRange = errors.New("amount out of range")
	ErrEmptyDate     = errors.New("empty date")
	ErrInvalidDate   = errors.New("invalid date")
)

// leadingNumber matches the numeric prefix a lenient float parser would accept.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// maxAmount bounds stored amounts to the NUMERIC(18,6) columns: at most 12
// integer digits.
var maxAmount = decimal.New(1, 12)

// ParseAmount parses a report amount. The first comma is read as the decimal
// separator, and trailing garbage after the numeric prefix is ignored.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	s = strings.Replace(s, ",", ".", 1)
	num := leadingNumber.FindString(s)
	if num == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ErrAmountOutOfRange
	}
	return d, nil
}

// AmountOrZero is the default policy for monetary columns: a value that
// cannot be parsed counts as zero and never rejects the row.
func AmountOrZero(raw string) decimal.Decimal {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// QuantityOrZero parses the leading integer of a quantity cell, or 0.
// Values beyond the INTEGER column range are clamped to it.
func QuantityOrZero(raw string) int {
	num := leadingInt.FindString(strings.TrimSpace(raw))
	if num == "" {
		return 0
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(num, "-") {
				return math.MinInt32
			}
			return math.MaxInt32
		}
		return 0
	}
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int(n)
}

// genericLayouts are tried, in order, for dates that are not day-month-year.
var genericLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseReportDate normalizes a report date cell to UTC midnight.
//
// A hyphen- or slash-separated triple whose first part has at most two
// characters and whose last part has exactly four is always read as
// day-month-year, so "03-04-2025" is 3 April, never 4 March. Anything after
// the first whitespace (a time of day) is discarded for that rule. All other
// strings go through genericLayouts. Impossible dates such as 31-02-2025
// fail instead of rolling over.
func ParseReportDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}

	datePart := s
	if i := strings.IndexAny(s, " \tT"); i > 0 && !strings.Contains(s[:i], ":") {
		datePart = s[:i]
	}

	for _, sep := range []string{"-", "/"} {
		parts := strings.Split(datePart, sep)
		if len(parts) == 3 && len(parts[0]) <= 2 && len(parts[2]) == 4 {
			return dayMonthYear(parts[0], parts[1], parts[2])
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func dayMonthYear(dd, mm, yyyy string) (time.Time, error) {
	day, errD := strconv.Atoi(dd)
	month, errM := strconv.Atoi(mm)
	year, errY := strconv.Atoi(yyyy)
	if errD != nil || errM != nil || errY != nil || year < 1 {
		return time.Time{}, ErrInvalidDate
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// calendarDate keeps the date as written in t's own offset and drops the time.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

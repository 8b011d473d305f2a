// Package period resolves fiscal periods: monthly or quarterly windows of a
// calendar year, identified by a token such as "03" or "Q1".
package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ossvat/internal/domain"
)

// Frequency is the tax filing cadence.
type Frequency string

const (
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
)

// ParseFrequency accepts MONTHLY or QUARTERLY in any case. An empty value
// means Monthly.
func ParseFrequency(raw string) (Frequency, error) {
	switch Frequency(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFrequency, raw)
	}
}

// Period is a month (Index 1..12) or a quarter (Index 1..4) of Year.
type Period struct {
	Year      int
	Frequency Frequency
	Index     int
}

// Parse resolves a year and a period token. "Q1".."Q4" (case-insensitive)
// selects a quarter; "1".."12" or "01".."12" selects a month.
func Parse(year int, token string) (Period, error) {
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("%w: year %d out of range", domain.ErrInvalidPeriod, year)
	}
	tok := strings.ToUpper(strings.TrimSpace(token))
	if tok == "" {
		return Period{}, fmt.Errorf("%w: empty period", domain.ErrInvalidPeriod)
	}

	if rest, ok := strings.CutPrefix(tok, "Q"); ok {
		q, err := strconv.Atoi(rest)
		if err != nil || len(rest) != 1 || q < 1 || q > 4 {
			return Period{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, token)
		}
		return Period{Year: year, Frequency: Quarterly, Index: q}, nil
	}

	m, err := strconv.Atoi(tok)
	if err != nil || len(tok) > 2 || m < 1 || m > 12 {
		return Period{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, token)
	}
	return Period{Year: year, Frequency: Monthly, Index: m}, nil
}

// FromDate returns the period of the given frequency containing t.
func FromDate(t time.Time, freq Frequency) Period {
	t = t.UTC()
	if freq == Quarterly {
		return Period{Year: t.Year(), Frequency: Quarterly, Index: (int(t.Month())-1)/3 + 1}
	}
	return Period{Year: t.Year(), Frequency: Monthly, Index: int(t.Month())}
}

// Token is the canonical period identifier: "01".."12" or "Q1".."Q4".
func (p Period) Token() string {
	if p.Frequency == Quarterly {
		return "Q" + strconv.Itoa(p.Index)
	}
	return fmt.Sprintf("%02d", p.Index)
}

// Label is the human-readable name, e.g. "March 2025" or "Q1 2025".
func (p Period) Label() string {
	if p.Frequency == Quarterly {
		return fmt.Sprintf("Q%d %d", p.Index, p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Index).String(), p.Year)
}

// Range returns the UTC window [start, end) covered by the period.
func (p Period) Range() (time.Time, time.Time) {
	months, first := 1, p.Index
	if p.Frequency == Quarterly {
		months, first = 3, (p.Index-1)*3+1
	}
	start := time.Date(p.Year, time.Month(first), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, months, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%d-%s", p.Year, p.Token())
}

// Discover returns the distinct periods of freq that contain at least one of
// dates, ordered as by Sort.
func Discover(dates []time.Time, freq Frequency) []Period {
	seen := make(map[Period]bool)
	var out []Period
	for _, d := range dates {
		p := FromDate(d, freq)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	Sort(out)
	return out
}

// Sort orders periods by year descending, then by token descending.
func Sort(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		if periods[i].Year != periods[j].Year {
			return periods[i].Year > periods[j].Year
		}
		return periods[i].Token() > periods[j].Token()
	})
}

package ingest

import (
	"fmt"
	"strings"

	"ossvat/internal/domain"
)

// SkipReason explains why a row was not accepted. The empty reason means accepted.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipTypeNotAllowed SkipReason = "type_not_allowed"
	SkipSchemeMismatch SkipReason = "scheme_mismatch"
	SkipInvalidDate    SkipReason = "invalid_date"
)

// Filter decides which rows are persisted.
type Filter struct {
	allowed      map[domain.TransactionType]bool
	targetScheme string
}

// NewFilter builds a Filter from configured transaction types and the target
// tax reporting scheme. Only SALE and REFUND may be allowed.
func NewFilter(allowedTypes []string, targetScheme string) (Filter, error) {
	scheme := NormalizeToken(targetScheme)
	if scheme == "" {
		return Filter{}, fmt.Errorf("ingest.NewFilter: target scheme is required")
	}
	allowed := make(map[domain.TransactionType]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		tt := domain.TransactionType(NormalizeToken(t))
		if !domain.ValidTransactionTypes[tt] {
			return Filter{}, fmt.Errorf("ingest.NewFilter: unsupported transaction type %q", t)
		}
		allowed[tt] = true
	}
	if len(allowed) == 0 {
		return Filter{}, fmt.Errorf("ingest.NewFilter: at least one transaction type is required")
	}
	return Filter{allowed: allowed, targetScheme: scheme}, nil
}

// DefaultFilter accepts SALE and REFUND rows of the UNION-OSS scheme.
func DefaultFilter() Filter {
	f, _ := NewFilter([]string{"SALE", "REFUND"}, "UNION-OSS")
	return f
}

// TargetScheme returns the normalized scheme rows must belong to.
func (f Filter) TargetScheme() string {
	return f.targetScheme
}

// Check returns SkipNone when a row with the given normalized type and scheme
// and a successfully parsed date should be kept.
func (f Filter) Check(txType domain.TransactionType, scheme string, dateOK bool) SkipReason {
	switch {
	case !f.allowed[txType]:
		return SkipTypeNotAllowed
	case scheme != f.targetScheme:
		return SkipSchemeMismatch
	case !dateOK:
		return SkipInvalidDate
	default:
		return SkipNone
	}
}

// NormalizeToken trims and upper-cases an enum-like cell.
func NormalizeToken(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

package service

import (
	"context"
	"fmt"
	"time"

	"ossvat/internal/aggregate"
	"ossvat/internal/country"
	"ossvat/internal/domain"
	"ossvat/internal/metrics"
	"ossvat/internal/period"
	"ossvat/internal/port"
)

// reportedTypes are the transaction types every query covers.
var reportedTypes = []domain.TransactionType{domain.TransactionTypeSale, domain.TransactionTypeRefund}

// SummaryReport is the per-jurisdiction aggregation of one fiscal period.
type SummaryReport struct {
	Period    period.Period
	Start     time.Time
	End       time.Time
	Summaries []aggregate.Summary
}

// CountryDetails lists the transactions of one jurisdiction in a period.
type CountryDetails struct {
	Country      string
	CountryName  string
	Period       period.Period
	Transactions []domain.TransactionDetail
}

// TransactionService answers period and aggregation queries.
type TransactionService interface {
	AvailablePeriods(ctx context.Context, userID string, freq period.Frequency) ([]period.Period, error)
	Summaries(ctx context.Context, userID string, p period.Period) (*SummaryReport, error)
	DetailsByCountry(ctx context.Context, userID string, p period.Period, countryCode string) (*CountryDetails, error)
}

type transactionService struct {
	repo    port.TransactionRepository
	metrics *metrics.Metrics
}

// NewTransactionService creates a new TransactionService implementation.
func NewTransactionService(repo port.TransactionRepository, m *metrics.Metrics) TransactionService {
	return &transactionService{repo: repo, metrics: m}
}

func (s *transactionService) AvailablePeriods(ctx context.Context, userID string, freq period.Frequency) ([]period.Period, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	defer s.observe("available_periods", time.Now())

	dates, err := s.repo.DistinctDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("transactionService.AvailablePeriods: %w: %w", domain.ErrQueryFailed, err)
	}
	return period.Discover(dates, freq), nil
}

func (s *transactionService) Summaries(ctx context.Context, userID string, p period.Period) (*SummaryReport, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	defer s.observe("summary", time.Now())

	start, end := p.Range()
	txns, err := s.repo.ListInRange(ctx, userID, start, end, reportedTypes)
	if err != nil {
		return nil, fmt.Errorf("transactionService.Summaries: %w: %w", domain.ErrQueryFailed, err)
	}

	return &SummaryReport{
		Period:    p,
		Start:     start,
		End:       end,
		Summaries: aggregate.Sorted(aggregate.Aggregate(txns)),
	}, nil
}

func (s *transactionService) DetailsByCountry(ctx context.Context, userID string, p period.Period, countryCode string) (*CountryDetails, error) {
	if userID == "" {
		return nil, domain.ErrMissingUserID
	}
	if !country.IsCode(countryCode) {
		return nil, domain.ErrInvalidCountry
	}
	code := country.Normalize(countryCode)
	defer s.observe("by_country", time.Now())

	start, end := p.Range()
	details, err := s.repo.ListDetails(ctx, domain.DetailFilter{
		UserID:          userID,
		From:            start,
		To:              end,
		Types:           reportedTypes,
		CountryVariants: country.Variants(code),
	})
	if err != nil {
		return nil, fmt.Errorf("transactionService.DetailsByCountry: %w: %w", domain.ErrQueryFailed, err)
	}
	if details == nil {
		details = []domain.TransactionDetail{}
	}

	return &CountryDetails{
		Country:      code,
		CountryName:  country.Name(code),
		Period:       p,
		Transactions: details,
	}, nil
}

func (s *transactionService) observe(op string, started time.Time) {
	s.metrics.ObserveQuery(op, time.Since(started))
}

package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SpendingPeriod is the window of a spending summary.
type SpendingPeriod string

const (
	// PeriodWeek covers today and the six days before it
	PeriodWeek SpendingPeriod = "week"

	// PeriodMonth covers the current calendar month
	PeriodMonth SpendingPeriod = "month"

	// PeriodYear covers the current calendar year
	PeriodYear SpendingPeriod = "year"
)

// ParseSpendingPeriod parses a period name. Empty defaults to a month.
func ParseSpendingPeriod(s string) (SpendingPeriod, error) {
	switch p := SpendingPeriod(s); p {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("%w: period must be week, month or year", ErrInvalidRequest)
	}
}

// Start returns the first instant of the period containing now, on the
// ledger calendar.
func (p SpendingPeriod) Start(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()

	switch p {
	case PeriodWeek:
		return time.Date(y, m, d-6, 0, 0, 0, 0, loc)
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// ServiceSpend is the outgoing volume through one service.
type ServiceSpend struct {
	ServiceID string
	Count     int
	Amount    decimal.Decimal
}

// SpendingSummary aggregates the completed transactions of an account.
type SpendingSummary struct {
	AccountID    string
	Period       SpendingPeriod
	From         time.Time
	To           time.Time
	Count        int
	Spent        decimal.Decimal
	Commission   decimal.Decimal
	Cashback     decimal.Decimal
	Received     decimal.Decimal
	PointsEarned int64
	ByService    []ServiceSpend
}

// NewSpendingSummary starts an empty summary for the window [from, to].
func NewSpendingSummary(accountID string, period SpendingPeriod, from, to time.Time) *SpendingSummary {
	return &SpendingSummary{
		AccountID:  accountID,
		Period:     period,
		From:       from,
		To:         to,
		Spent:      decimal.Zero,
		Commission: decimal.Zero,
		Cashback:   decimal.Zero,
		Received:   decimal.Zero,
	}
}

// Add folds t into the summary. Failed transactions and transactions outside
// the window are ignored.
func (s *SpendingSummary) Add(t *Transaction) {
	if t.Status != StatusCompleted || t.CreatedAt.Before(s.From) || t.CreatedAt.After(s.To) {
		return
	}

	if t.DestinationAccountID == s.AccountID {
		s.Received = s.Received.Add(t.Amount)
	}
	if t.OriginAccountID != s.AccountID {
		return
	}

	s.Count++
	s.Spent = s.Spent.Add(t.TotalDebited)
	s.Commission = s.Commission.Add(t.Commission)
	s.Cashback = s.Cashback.Add(t.Cashback)
	s.PointsEarned += t.PointsEarned

	for i := range s.ByService {
		if s.ByService[i].ServiceID == t.ServiceID {
			s.ByService[i].Count++
			s.ByService[i].Amount = s.ByService[i].Amount.Add(t.Amount)
			return
		}
	}
	s.ByService = append(s.ByService, ServiceSpend{ServiceID: t.ServiceID, Count: 1, Amount: t.Amount})
}

// SortByAmount orders the service breakdown by volume, largest first.
func (s *SpendingSummary) SortByAmount() {
	sort.SliceStable(s.ByService, func(i, j int) bool {
		a, b := s.ByService[i], s.ByService[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.ServiceID < b.ServiceID
	})
}

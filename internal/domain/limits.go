package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDailyLimit and DefaultMonthlyLimit apply to accounts opened without
// explicit limits.
var (
	DefaultDailyLimit   = decimal.NewFromInt(5000)
	DefaultMonthlyLimit = decimal.NewFromInt(50000)
)

// SpendAuthorization carries the spend counters to persist if the debit
// commits.
type SpendAuthorization struct {
	DailySpent       decimal.Decimal
	MonthlySpent     decimal.Decimal
	DailyResetDate   time.Time
	MonthlyResetDate time.Time
}

// AuthorizeSpend applies period rollover and checks amount against the daily
// and then the monthly limit. It must be called on an account read under lock
// and never mutates the account.
func AuthorizeSpend(a *Account, amount decimal.Decimal, now time.Time, loc *time.Location) (SpendAuthorization, error) {
	today := CalendarDay(now, loc)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	dailySpent := a.DailySpent
	if !sameDay(a.DailyResetDate, today) {
		dailySpent = decimal.Zero
	}

	monthlySpent := a.MonthlySpent
	if !sameDay(a.MonthlyResetDate, monthStart) {
		monthlySpent = decimal.Zero
	}

	candidateDaily := dailySpent.Add(amount)
	if candidateDaily.GreaterThan(a.DailyLimit) {
		return SpendAuthorization{}, &LimitExceededError{Scope: LimitScopeDaily, Limit: a.DailyLimit, Attempted: candidateDaily}
	}

	candidateMonthly := monthlySpent.Add(amount)
	if candidateMonthly.GreaterThan(a.MonthlyLimit) {
		return SpendAuthorization{}, &LimitExceededError{Scope: LimitScopeMonthly, Limit: a.MonthlyLimit, Attempted: candidateMonthly}
	}

	return SpendAuthorization{
		DailySpent:       candidateDaily,
		MonthlySpent:     candidateMonthly,
		DailyResetDate:   today,
		MonthlyResetDate: monthStart,
	}, nil
}

// Apply copies the authorized counters onto the account.
func (s SpendAuthorization) Apply(a *Account) {
	a.DailySpent = s.DailySpent
	a.MonthlySpent = s.MonthlySpent
	a.DailyResetDate = s.DailyResetDate
	a.MonthlyResetDate = s.MonthlyResetDate
}

// CalendarDay returns the calendar date of t in loc as midnight UTC, the form
// reset dates are stored in.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

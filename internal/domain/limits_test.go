package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAuthorizeSpend(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		account      Account
		amount       decimal.Decimal
		wantScope    LimitScope
		wantDaily    string
		wantMonthly  string
		wantDayReset time.Time
	}{
		{
			name: "first spend of the day",
			account: Account{
				DailyLimit:       decimal.NewFromInt(500),
				MonthlyLimit:     decimal.NewFromInt(5000),
				DailyResetDate:   day(2026, 3, 15),
				MonthlyResetDate: day(2026, 3, 1),
			},
			amount:       decimal.NewFromInt(200),
			wantDaily:    "200",
			wantMonthly:  "200",
			wantDayReset: day(2026, 3, 15),
		},
		{
			name: "second spend crosses daily limit",
			account: Account{
				DailyLimit:       decimal.NewFromInt(500),
				MonthlyLimit:     decimal.NewFromInt(5000),
				DailySpent:       decimal.NewFromInt(200),
				MonthlySpent:     decimal.NewFromInt(200),
				DailyResetDate:   day(2026, 3, 15),
				MonthlyResetDate: day(2026, 3, 1),
			},
			amount:    decimal.NewFromInt(350),
			wantScope: LimitScopeDaily,
		},
		{
			name: "exactly at the daily limit is allowed",
			account: Account{
				DailyLimit:       decimal.NewFromInt(500),
				MonthlyLimit:     decimal.NewFromInt(5000),
				DailySpent:       decimal.NewFromInt(200),
				MonthlySpent:     decimal.NewFromInt(200),
				DailyResetDate:   day(2026, 3, 15),
				MonthlyResetDate: day(2026, 3, 1),
			},
			amount:       decimal.NewFromInt(300),
			wantDaily:    "500",
			wantMonthly:  "500",
			wantDayReset: day(2026, 3, 15),
		},
		{
			name: "stale daily counter resets",
			account: Account{
				DailyLimit:       decimal.NewFromInt(500),
				MonthlyLimit:     decimal.NewFromInt(5000),
				DailySpent:       decimal.NewFromInt(480),
				MonthlySpent:     decimal.NewFromInt(480),
				DailyResetDate:   day(2026, 3, 14),
				MonthlyResetDate: day(2026, 3, 1),
			},
			amount:       decimal.NewFromInt(100),
			wantDaily:    "100",
			wantMonthly:  "580",
			wantDayReset: day(2026, 3, 15),
		},
		{
			name: "monthly limit checked after daily",
			account: Account{
				DailyLimit:       decimal.NewFromInt(500),
				MonthlyLimit:     decimal.NewFromInt(1000),
				MonthlySpent:     decimal.NewFromInt(950),
				DailyResetDate:   day(2026, 3, 15),
				MonthlyResetDate: day(2026, 3, 1),
			},
			amount:    decimal.NewFromInt(100),
			wantScope: LimitScopeMonthly,
		},
		{
			name: "new month resets monthly counter",
			account: Account{
				DailyLimit:       decimal.NewFromInt(500),
				MonthlyLimit:     decimal.NewFromInt(1000),
				MonthlySpent:     decimal.NewFromInt(950),
				DailyResetDate:   day(2026, 2, 28),
				MonthlyResetDate: day(2026, 2, 1),
			},
			amount:       decimal.NewFromInt(100),
			wantDaily:    "100",
			wantMonthly:  "100",
			wantDayReset: day(2026, 3, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.account
			auth, err := AuthorizeSpend(&tt.account, tt.amount, now, time.UTC)

			assert.Equal(t, before, tt.account, "authorize must not mutate the account")

			if tt.wantScope != "" {
				var limitErr *LimitExceededError
				require.True(t, errors.As(err, &limitErr), "expected LimitExceededError, got %v", err)
				assert.Equal(t, tt.wantScope, limitErr.Scope)
				assert.ErrorIs(t, err, ErrLimitExceeded)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDaily, auth.DailySpent.String())
			assert.Equal(t, tt.wantMonthly, auth.MonthlySpent.String())
			assert.Equal(t, tt.wantDayReset, auth.DailyResetDate)
			assert.Equal(t, day(2026, 3, 1), auth.MonthlyResetDate)
		})
	}
}

func TestAuthorizeSpend_UsesLedgerTimezone(t *testing.T) {
	laPaz := mustLocation(t, "America/La_Paz")

	// 02:00 UTC on the 16th is still the 15th in La Paz (UTC-4).
	now := time.Date(2026, 3, 16, 2, 0, 0, 0, time.UTC)
	acc := &Account{
		DailyLimit:       decimal.NewFromInt(500),
		MonthlyLimit:     decimal.NewFromInt(5000),
		DailySpent:       decimal.NewFromInt(450),
		MonthlySpent:     decimal.NewFromInt(450),
		DailyResetDate:   day(2026, 3, 15),
		MonthlyResetDate: day(2026, 3, 1),
	}

	_, err := AuthorizeSpend(acc, decimal.NewFromInt(100), now, laPaz)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	auth, err := AuthorizeSpend(acc, decimal.NewFromInt(100), now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "100", auth.DailySpent.String())
}

func TestSpendAuthorization_Apply(t *testing.T) {
	acc := &Account{}
	auth := SpendAuthorization{
		DailySpent:       decimal.NewFromInt(10),
		MonthlySpent:     decimal.NewFromInt(20),
		DailyResetDate:   day(2026, 1, 2),
		MonthlyResetDate: day(2026, 1, 1),
	}

	auth.Apply(acc)

	assert.True(t, acc.DailySpent.Equal(decimal.NewFromInt(10)))
	assert.True(t, acc.MonthlySpent.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, day(2026, 1, 2), acc.DailyResetDate)
	assert.Equal(t, day(2026, 1, 1), acc.MonthlyResetDate)
}

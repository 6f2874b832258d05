package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places amounts are kept at.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// Rewards is the priced outcome of a transaction amount.
type Rewards struct {
	Commission decimal.Decimal
	Cashback   decimal.Decimal
	Points     int64
}

// Commission returns amount*commissionPercent/100 + commissionFixed.
func Commission(s *Service, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.CommissionPercent).Div(hundred).
		Add(s.CommissionFixed).
		Round(MoneyScale)
}

// Cashback returns the service cashback plus the extra of every promotion
// active at now that applies to the service.
func Cashback(s *Service, promotions []*Promotion, amount decimal.Decimal, now time.Time) decimal.Decimal {
	total := amount.Mul(s.CashbackPercent).Div(hundred)
	for _, p := range promotions {
		if p.ActiveAt(now) && p.AppliesTo(s.ID) {
			total = total.Add(amount.Mul(p.ExtraCashbackPercent).Div(hundred))
		}
	}
	return total.Round(MoneyScale)
}

// Points returns one loyalty point per whole currency unit.
func Points(amount decimal.Decimal) int64 {
	if amount.IsNegative() {
		return 0
	}
	return amount.Floor().IntPart()
}

// ComputeRewards prices a transaction. Transfers never pay cashback to the
// payer.
func ComputeRewards(kind TransactionKind, snap CatalogSnapshot, amount decimal.Decimal, now time.Time) Rewards {
	r := Rewards{
		Commission: Commission(snap.Service, amount),
		Cashback:   decimal.Zero,
		Points:     Points(amount),
	}
	if kind == KindPayment {
		r.Cashback = Cashback(snap.Service, snap.Promotions, amount, now)
	}
	return r
}

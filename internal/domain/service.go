package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Service is a priced product: P2P transfer, a biller, a top-up.
type Service struct {
	ID                string
	Name              string
	Description       string
	Category          string
	Popular           bool
	DisplayOrder      int
	CommissionPercent decimal.Decimal
	CommissionFixed   decimal.Decimal
	MinAmount         decimal.Decimal
	MaxAmount         decimal.Decimal
	CashbackPercent   decimal.Decimal
	Active            bool
}

// ValidateAmount checks amount against the service bounds. A zero bound is
// not enforced.
func (s *Service) ValidateAmount(amount decimal.Decimal) error {
	if s.MinAmount.IsPositive() && amount.LessThan(s.MinAmount) {
		return ErrAmountTooSmall
	}
	if s.MaxAmount.IsPositive() && amount.GreaterThan(s.MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// ServiceFilter narrows a catalog listing. Zero values match everything.
type ServiceFilter struct {
	Category    string
	PopularOnly bool
}

// Matches reports whether svc is listed under f. Inactive services never are.
func (f ServiceFilter) Matches(svc *Service) bool {
	if !svc.Active {
		return false
	}
	if f.Category != "" && !strings.EqualFold(svc.Category, f.Category) {
		return false
	}
	return !f.PopularOnly || svc.Popular
}

// SortServices orders a listing by display order, then category and name.
func SortServices(services []*Service) {
	sort.SliceStable(services, func(i, j int) bool {
		a, b := services[i], services[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
}

// Promotion adds extra cashback on top of the service rate during a window.
type Promotion struct {
	ID                   string
	Name                 string
	Description          string
	// Higher priority promotions are listed first.
	Priority             int
	StartsAt             time.Time
	EndsAt               time.Time
	ExtraCashbackPercent decimal.Decimal
	// Empty means the promotion applies to every service.
	ApplicableServiceIDs []string
	Active               bool
}

// ActiveAt reports whether the promotion window contains now.
func (p *Promotion) ActiveAt(now time.Time) bool {
	return p.Active && !now.Before(p.StartsAt) && !now.After(p.EndsAt)
}

// SortPromotions orders promotions by priority, newest window first.
func SortPromotions(promotions []*Promotion) {
	sort.SliceStable(promotions, func(i, j int) bool {
		a, b := promotions[i], promotions[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.StartsAt.After(b.StartsAt)
	})
}

// AppliesTo reports whether the promotion covers serviceID.
func (p *Promotion) AppliesTo(serviceID string) bool {
	if len(p.ApplicableServiceIDs) == 0 {
		return true
	}
	for _, id := range p.ApplicableServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// CatalogSnapshot is the pricing configuration a single request runs against.
// It is read once, before the atomic unit, so retries price identically.
type CatalogSnapshot struct {
	Service    *Service
	Promotions []*Promotion
}

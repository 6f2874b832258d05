//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

// ServiceCatalog reads service pricing and promotions.
type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (*domain.Service, error)
	ActivePromotions(ctx context.Context, serviceID string, at time.Time) ([]*domain.Promotion, error)
}

// Notifier receives completed transactions. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event domain.NotificationEvent) error
}

// CodeGenerator produces human-readable transaction reference codes.
type CodeGenerator interface {
	Generate(now time.Time) string
}

// MetricsRecorder observes the transfer engine.
type MetricsRecorder interface {
	TransactionCompleted(kind domain.TransactionKind, amount decimal.Decimal, duration time.Duration)
	TransactionFailed(kind domain.TransactionKind, reason string)
	ConflictRetried(kind domain.TransactionKind)
	NotificationFailed()
}

type noopMetrics struct{}

func (noopMetrics) TransactionCompleted(domain.TransactionKind, decimal.Decimal, time.Duration) {}
func (noopMetrics) TransactionFailed(domain.TransactionKind, string)                           {}
func (noopMetrics) ConflictRetried(domain.TransactionKind)                                     {}
func (noopMetrics) NotificationFailed()                                                        {}

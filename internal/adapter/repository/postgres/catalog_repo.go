package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/infrastructure/postgres/generated"
)

// CatalogRepository implements usecase.CatalogRepository.
type CatalogRepository struct {
	queries *generated.Queries
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return newCatalogRepository(pool)
}

func newCatalogRepository(db generated.DBTX) *CatalogRepository {
	return &CatalogRepository{queries: generated.New(db)}
}

// GetService retrieves a service by ID, active or not.
func (r *CatalogRepository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	row, err := r.queries.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}

		return nil, translateError(err)
	}

	return serviceFromRow(row), nil
}

// ListServices returns every active service in display order.
func (r *CatalogRepository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	rows, err := r.queries.ListActiveServices(ctx)
	if err != nil {
		return nil, translateError(err)
	}

	services := make([]*domain.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, serviceFromRow(row))
	}

	return services, nil
}

// ListPromotions returns the active promotions that may cover serviceID.
// Window filtering is left to the caller.
func (r *CatalogRepository) ListPromotions(ctx context.Context, serviceID string) ([]*domain.Promotion, error) {
	rows, err := r.queries.ListPromotionsForService(ctx, serviceID)
	if err != nil {
		return nil, translateError(err)
	}

	return promotionsFromRows(rows), nil
}

// ListActivePromotions returns every promotion whose window contains at,
// highest priority first.
func (r *CatalogRepository) ListActivePromotions(ctx context.Context, at time.Time) ([]*domain.Promotion, error) {
	rows, err := r.queries.ListActivePromotions(ctx, pgtype.Timestamptz{Time: at, Valid: true})
	if err != nil {
		return nil, translateError(err)
	}

	return promotionsFromRows(rows), nil
}

func serviceFromRow(row generated.Service) *domain.Service {
	return &domain.Service{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		Category:          row.Category,
		Popular:           row.Popular,
		DisplayOrder:      int(row.DisplayOrder),
		CommissionPercent: numericToDecimal(row.CommissionPercent),
		CommissionFixed:   numericToDecimal(row.CommissionFixed),
		MinAmount:         numericToDecimal(row.MinAmount),
		MaxAmount:         numericToDecimal(row.MaxAmount),
		CashbackPercent:   numericToDecimal(row.CashbackPercent),
		Active:            row.Active,
	}
}

func promotionsFromRows(rows []generated.Promotion) []*domain.Promotion {
	promotions := make([]*domain.Promotion, 0, len(rows))
	for _, row := range rows {
		promotions = append(promotions, &domain.Promotion{
			ID:                   row.ID,
			Name:                 row.Name,
			Description:          row.Description,
			Priority:             int(row.Priority),
			StartsAt:             row.StartsAt.Time,
			EndsAt:               row.EndsAt.Time,
			ExtraCashbackPercent: numericToDecimal(row.ExtraCashbackPercent),
			ApplicableServiceIDs: row.ServiceIds,
			Active:               row.Active,
		})
	}
	return promotions
}

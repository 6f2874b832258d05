package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/skypagos/ledger/internal/adapter/http/dto"
	"github.com/skypagos/ledger/internal/domain"
)

// CatalogReader lists the service catalog and running promotions.
type CatalogReader interface {
	Services(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error)
	CurrentPromotions(ctx context.Context, at time.Time) ([]*domain.Promotion, error)
}

// CatalogHandler serves the public catalog.
type CatalogHandler struct {
	catalog CatalogReader
	now     func() time.Time
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, now: time.Now}
}

// Services lists active services, optionally by category or popularity.
func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	filter := domain.ServiceFilter{Category: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("popular"); raw != "" {
		popular, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "popular must be a boolean")
			return
		}
		filter.PopularOnly = popular
	}

	services, err := h.catalog.Services(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ServicesFromDomain(services))
}

// Promotions lists the promotions running right now.
func (h *CatalogHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.catalog.CurrentPromotions(r.Context(), h.now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PromotionsFromDomain(promotions))
}

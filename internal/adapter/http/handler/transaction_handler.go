package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skypagos/ledger/internal/adapter/http/dto"
	"github.com/skypagos/ledger/internal/domain"
)

// TransactionReader looks up ledger transactions by code.
type TransactionReader interface {
	GetByCode(ctx context.Context, code, ownerID string) (*domain.Transaction, error)
	Entries(ctx context.Context, code, ownerID string) ([]*domain.Entry, error)
}

// TransactionHandler serves the transaction ledger.
type TransactionHandler struct {
	txUC TransactionReader
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC TransactionReader) *TransactionHandler {
	return &TransactionHandler{txUC: txUC}
}

// Get returns a transaction by its reference code.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.txUC.GetByCode(r.Context(), chi.URLParam(r, "code"), ownerScope(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Entries returns the postings of a transaction.
func (h *TransactionHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.txUC.Entries(r.Context(), chi.URLParam(r, "code"), ownerScope(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skypagos/ledger/internal/adapter/http/dto"
	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetBalance(ctx context.Context, id, ownerID string) (*usecase.BalanceView, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Account, error)
}

// HistoryService lists and summarizes the transactions of an account.
type HistoryService interface {
	History(ctx context.Context, input usecase.HistoryInput) (*usecase.HistoryPage, error)
	Spending(ctx context.Context, input usecase.SpendingInput) (*domain.SpendingSummary, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	historyUC HistoryService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, historyUC HistoryService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, historyUC: historyUC}
}

// Open opens a wallet account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing account ID")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !account.Owns(ownerScope(r)) {
		writeDomainError(w, domain.ErrAccountNotOwned)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Balance returns the display balance of an account.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	view, err := h.accountUC.GetBalance(r.Context(), chi.URLParam(r, "id"), ownerScope(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromView(view))
}

// Transactions returns one page of account history, newest first.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	page, err := h.historyUC.History(r.Context(), usecase.HistoryInput{
		AccountID: chi.URLParam(r, "id"),
		OwnerID:   ownerScope(r),
		Page:      parseIntQuery(r, "page", 1),
		PageSize:  parseIntQuery(r, "page_size", domain.DefaultPageSize),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Transactions: dto.TransactionsFromDomain(page.Transactions),
		Page:         page.Page,
		PageSize:     page.PageSize,
	})
}

// Spending summarizes account activity over the week, month or year.
func (h *AccountHandler) Spending(w http.ResponseWriter, r *http.Request) {
	summary, err := h.historyUC.Spending(r.Context(), usecase.SpendingInput{
		AccountID: chi.URLParam(r, "id"),
		OwnerID:   ownerScope(r),
		Period:    domain.SpendingPeriod(r.URL.Query().Get("period")),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SpendingFromDomain(summary))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Deactivate blocks an account from moving money.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Activate re-enables a deactivated account.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AccountHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	account, err := h.accountUC.SetActive(r.Context(), chi.URLParam(r, "id"), active)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

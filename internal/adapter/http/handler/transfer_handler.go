package handler

import (
	"context"
	"net/http"

	"github.com/skypagos/ledger/internal/adapter/http/dto"
	"github.com/skypagos/ledger/internal/usecase"
)

// MoneyMover runs transfers and payments.
type MoneyMover interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
	Pay(ctx context.Context, input usecase.PaymentInput) (*usecase.PaymentResult, error)
}

// TransferHandler handles money movement requests.
type TransferHandler struct {
	transferUC MoneyMover
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC MoneyMover) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Transfer sends money to another wallet. A replayed reference answers 200
// with the recorded result.
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	if err := requireMoneyMovement(r); err != nil {
		writeDomainError(w, err)
		return
	}

	var req dto.TransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(ownerScope(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, createdOrReplayed(result.Replayed), dto.TransferFromResult(result))
}

// Pay pays a service from a wallet.
func (h *TransferHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if err := requireMoneyMovement(r); err != nil {
		writeDomainError(w, err)
		return
	}

	var req dto.PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(ownerScope(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.transferUC.Pay(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, createdOrReplayed(result.Replayed), dto.PaymentFromResult(result))
}

func createdOrReplayed(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

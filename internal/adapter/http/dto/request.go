package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// OpenAccountRequest represents a request to open a wallet account.
type OpenAccountRequest struct {
	OwnerID        string `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
	Phone          string `json:"phone,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	InitialBalance string `json:"initial_balance,omitempty"`
	DailyLimit     string `json:"daily_limit,omitempty"`
	MonthlyLimit   string `json:"monthly_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	input := usecase.OpenAccountInput{
		OwnerID:       r.OwnerID,
		OwnerName:     r.OwnerName,
		Phone:         r.Phone,
		AccountNumber: r.AccountNumber,
	}

	var err error
	if input.InitialBalance, err = parseOptionalAmount("initial_balance", r.InitialBalance); err != nil {
		return usecase.OpenAccountInput{}, err
	}
	if input.DailyLimit, err = parseOptionalAmount("daily_limit", r.DailyLimit); err != nil {
		return usecase.OpenAccountInput{}, err
	}
	if input.MonthlyLimit, err = parseOptionalAmount("monthly_limit", r.MonthlyLimit); err != nil {
		return usecase.OpenAccountInput{}, err
	}

	return input, nil
}

// TransferRequest represents a request for a P2P transfer.
type TransferRequest struct {
	OriginAccountID       string `json:"origin_account_id"`
	DestinationIdentifier string `json:"destination_identifier"`
	Amount                string `json:"amount"`
	Description           string `json:"description"`
	Reference             string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input. ownerID scopes the origin to
// the caller's accounts.
func (r *TransferRequest) ToUseCaseInput(ownerID string) (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		OriginAccountID:       r.OriginAccountID,
		DestinationIdentifier: r.DestinationIdentifier,
		Amount:                amount,
		Description:           r.Description,
		Reference:             r.Reference,
		OwnerID:               ownerID,
	}, nil
}

// PaymentRequest represents a request to pay a service.
type PaymentRequest struct {
	AccountID             string `json:"account_id"`
	ServiceID             string `json:"service_id"`
	Amount                string `json:"amount"`
	DestinationIdentifier string `json:"destination_identifier,omitempty"`
	Description           string `json:"description"`
	Reference             string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PaymentRequest) ToUseCaseInput(ownerID string) (usecase.PaymentInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.PaymentInput{}, err
	}
	if strings.TrimSpace(r.ServiceID) == "" {
		return usecase.PaymentInput{}, fmt.Errorf("%w: service_id is required", domain.ErrInvalidRequest)
	}

	return usecase.PaymentInput{
		AccountID:             r.AccountID,
		ServiceID:             r.ServiceID,
		Amount:                amount,
		DestinationIdentifier: r.DestinationIdentifier,
		Description:           r.Description,
		Reference:             r.Reference,
		OwnerID:               ownerID,
	}, nil
}

// parseAmount reads a decimal string. Range and scale are checked by the
// engine.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a decimal amount", domain.ErrInvalidAmount, raw)
	}
	return amount, nil
}

func parseOptionalAmount(field, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a decimal amount", domain.ErrInvalidRequest, field)
	}
	return amount, nil
}

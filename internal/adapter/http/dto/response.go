package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
	"github.com/skypagos/ledger/internal/usecase"
)

// money renders amounts with two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	Phone         string    `json:"phone,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	Balance       string    `json:"balance"`
	Blocked       string    `json:"blocked_balance"`
	DailyLimit    string    `json:"daily_limit"`
	MonthlyLimit  string    `json:"monthly_limit"`
	Points        int64     `json:"points"`
	Active        bool      `json:"active"`
	System        bool      `json:"system,omitempty"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		OwnerName:     a.OwnerName,
		Phone:         a.Phone,
		AccountNumber: a.AccountNumber,
		Balance:       money(a.Balance),
		Blocked:       money(a.BlockedBalance),
		DailyLimit:    money(a.DailyLimit),
		MonthlyLimit:  money(a.MonthlyLimit),
		Points:        a.Points,
		Active:        a.Active,
		System:        a.System,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse is the display balance of an account.
type BalanceResponse struct {
	AccountID    string    `json:"account_id"`
	Balance      string    `json:"balance"`
	Blocked      string    `json:"blocked_balance"`
	Available    string    `json:"available_balance"`
	DailyLimit   string    `json:"daily_limit"`
	MonthlyLimit string    `json:"monthly_limit"`
	DailySpent   string    `json:"daily_spent"`
	MonthlySpent string    `json:"monthly_spent"`
	Points       int64     `json:"points"`
	Active       bool      `json:"active"`
	AsOf         time.Time `json:"as_of"`
}

// BalanceFromView converts a balance view to response.
func BalanceFromView(v *usecase.BalanceView) *BalanceResponse {
	return &BalanceResponse{
		AccountID:    v.AccountID,
		Balance:      money(v.Balance),
		Blocked:      money(v.Blocked),
		Available:    money(v.Available),
		DailyLimit:   money(v.DailyLimit),
		MonthlyLimit: money(v.MonthlyLimit),
		DailySpent:   money(v.DailySpent),
		MonthlySpent: money(v.MonthlySpent),
		Points:       v.Points,
		Active:       v.Active,
		AsOf:         v.AsOf,
	}
}

// TransferResponse is returned for a completed transfer.
type TransferResponse struct {
	Code            string `json:"code"`
	Amount          string `json:"amount"`
	Commission      string `json:"commission"`
	Total           string `json:"total"`
	DestinationName string `json:"destination_name"`
}

// TransferFromResult converts a transfer result to response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Code:            r.Code,
		Amount:          money(r.Amount),
		Commission:      money(r.Commission),
		Total:           money(r.Total),
		DestinationName: r.DestinationName,
	}
}

// PaymentResponse is returned for a completed payment.
type PaymentResponse struct {
	Code         string `json:"code"`
	Amount       string `json:"amount"`
	Commission   string `json:"commission"`
	Cashback     string `json:"cashback"`
	PointsEarned int64  `json:"points_earned"`
	NewBalance   string `json:"new_balance"`
}

// PaymentFromResult converts a payment result to response.
func PaymentFromResult(r *usecase.PaymentResult) *PaymentResponse {
	return &PaymentResponse{
		Code:         r.Code,
		Amount:       money(r.Amount),
		Commission:   money(r.Commission),
		Cashback:     money(r.Cashback),
		PointsEarned: r.PointsEarned,
		NewBalance:   money(r.NewBalance),
	}
}

// TransactionResponse represents a ledger transaction.
type TransactionResponse struct {
	ID                    string     `json:"id"`
	Code                  string     `json:"code"`
	Kind                  string     `json:"kind"`
	Status                string     `json:"status"`
	OriginAccountID       string     `json:"origin_account_id"`
	DestinationAccountID  string     `json:"destination_account_id,omitempty"`
	DestinationIdentifier string     `json:"destination_identifier,omitempty"`
	DestinationName       string     `json:"destination_name,omitempty"`
	ServiceID             string     `json:"service_id,omitempty"`
	Amount                string     `json:"amount"`
	Commission            string     `json:"commission"`
	Cashback              string     `json:"cashback"`
	TotalDebited          string     `json:"total_debited"`
	PointsEarned          int64      `json:"points_earned"`
	FailureReason         string     `json:"failure_reason,omitempty"`
	Description           string     `json:"description,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                    t.ID,
		Code:                  t.Code,
		Kind:                  string(t.Kind),
		Status:                string(t.Status),
		OriginAccountID:       t.OriginAccountID,
		DestinationAccountID:  t.DestinationAccountID,
		DestinationIdentifier: t.DestinationIdentifier,
		DestinationName:       t.DestinationName,
		ServiceID:             t.ServiceID,
		Amount:                money(t.Amount),
		Commission:            money(t.Commission),
		Cashback:              money(t.Cashback),
		TotalDebited:          money(t.TotalDebited),
		PointsEarned:          t.PointsEarned,
		FailureReason:         t.FailureReason,
		Description:           t.Description,
		CreatedAt:             t.CreatedAt,
		CompletedAt:           t.CompletedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	TransactionID   string    `json:"transaction_id"`
	Amount          string    `json:"amount"`
	PreviousBalance string    `json:"account_previous_balance"`
	CurrentBalance  string    `json:"account_current_balance"`
	AccountVersion  int64     `json:"account_version"`
	CreatedAt       time.Time `json:"created_at"`
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &EntryResponse{
			ID:              e.ID,
			AccountID:       e.AccountID,
			TransactionID:   e.TransactionID,
			Amount:          money(e.Amount),
			PreviousBalance: money(e.AccountPreviousBalance),
			CurrentBalance:  money(e.AccountCurrentBalance),
			AccountVersion:  e.AccountVersion,
			CreatedAt:       e.CreatedAt,
		}
	}
	return result
}

// HistoryResponse is one page of account history.
type HistoryResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
}

// ConsistencyResponse is the ledger-wide check result.
type ConsistencyResponse struct {
	Consistent   bool   `json:"consistent"`
	TotalBalance string `json:"total_balance"`
	TotalEntries string `json:"total_entries"`
}

// ReconciliationResponse is the result of reconciling one account.
type ReconciliationResponse struct {
	AccountID         string    `json:"account_id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	Reconciled        bool      `json:"reconciled"`
	CheckedAt         time.Time `json:"checked_at"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   money(r.RecordedBalance),
		CalculatedBalance: money(r.CalculatedBalance),
		Difference:        money(r.Difference),
		Reconciled:        r.IsReconciled,
		CheckedAt:         r.LastChecked,
	}
}

// ServiceResponse is a catalog entry.
type ServiceResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Category          string `json:"category"`
	Popular           bool   `json:"popular"`
	CommissionPercent string `json:"commission_percent"`
	CommissionFixed   string `json:"commission_fixed"`
	MinAmount         string `json:"min_amount"`
	MaxAmount         string `json:"max_amount"`
	CashbackPercent   string `json:"cashback_percent"`
}

// ServicesFromDomain converts services to responses.
func ServicesFromDomain(services []*domain.Service) []*ServiceResponse {
	result := make([]*ServiceResponse, len(services))
	for i, s := range services {
		result[i] = &ServiceResponse{
			ID:                s.ID,
			Name:              s.Name,
			Description:       s.Description,
			Category:          s.Category,
			Popular:           s.Popular,
			CommissionPercent: s.CommissionPercent.String(),
			CommissionFixed:   money(s.CommissionFixed),
			MinAmount:         money(s.MinAmount),
			MaxAmount:         money(s.MaxAmount),
			CashbackPercent:   s.CashbackPercent.String(),
		}
	}
	return result
}

// PromotionResponse is a running promotion.
type PromotionResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	ExtraCashbackPercent string    `json:"extra_cashback_percent"`
	ServiceIDs           []string  `json:"service_ids"`
	StartsAt             time.Time `json:"starts_at"`
	EndsAt               time.Time `json:"ends_at"`
}

// PromotionsFromDomain converts promotions to responses.
func PromotionsFromDomain(promotions []*domain.Promotion) []*PromotionResponse {
	result := make([]*PromotionResponse, len(promotions))
	for i, p := range promotions {
		serviceIDs := p.ApplicableServiceIDs
		if serviceIDs == nil {
			serviceIDs = []string{}
		}
		result[i] = &PromotionResponse{
			ID:                   p.ID,
			Name:                 p.Name,
			Description:          p.Description,
			ExtraCashbackPercent: p.ExtraCashbackPercent.String(),
			ServiceIDs:           serviceIDs,
			StartsAt:             p.StartsAt,
			EndsAt:               p.EndsAt,
		}
	}
	return result
}

// ServiceSpendResponse is the spend through one service.
type ServiceSpendResponse struct {
	ServiceID string `json:"service_id"`
	Count     int    `json:"count"`
	Amount    string `json:"amount"`
}

// SpendingResponse summarizes an account over a period.
type SpendingResponse struct {
	AccountID    string                  `json:"account_id"`
	Period       string                  `json:"period"`
	From         time.Time               `json:"from"`
	To           time.Time               `json:"to"`
	Count        int                     `json:"count"`
	Spent        string                  `json:"spent"`
	Commission   string                  `json:"commission"`
	Cashback     string                  `json:"cashback"`
	Received     string                  `json:"received"`
	PointsEarned int64                   `json:"points_earned"`
	ByService    []*ServiceSpendResponse `json:"by_service"`
}

// SpendingFromDomain converts a spending summary to response.
func SpendingFromDomain(s *domain.SpendingSummary) *SpendingResponse {
	byService := make([]*ServiceSpendResponse, len(s.ByService))
	for i, b := range s.ByService {
		byService[i] = &ServiceSpendResponse{ServiceID: b.ServiceID, Count: b.Count, Amount: money(b.Amount)}
	}

	return &SpendingResponse{
		AccountID:    s.AccountID,
		Period:       string(s.Period),
		From:         s.From,
		To:           s.To,
		Count:        s.Count,
		Spent:        money(s.Spent),
		Commission:   money(s.Commission),
		Cashback:     money(s.Cashback),
		Received:     money(s.Received),
		PointsEarned: s.PointsEarned,
		ByService:    byService,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

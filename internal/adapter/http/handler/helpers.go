package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/skypagos/ledger/internal/adapter/http/dto"
	"github.com/skypagos/ledger/internal/adapter/http/middleware"
	"github.com/skypagos/ledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err and writes it with a stable error code.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), errorCode(err), err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountNotOwned),
		errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrServiceInactive),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrReferenceMismatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable name the mobile app switches on.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, domain.ErrAmountTooSmall), errors.Is(err, domain.ErrAmountTooLarge):
		return "amount_out_of_range"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return "transaction_not_found"
	case errors.Is(err, domain.ErrServiceNotFound):
		return "service_not_found"
	case errors.Is(err, domain.ErrServiceInactive):
		return "service_inactive"
	case errors.Is(err, domain.ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, domain.ErrAccountNotOwned), errors.Is(err, domain.ErrInsufficientRole):
		return "forbidden"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, domain.ErrReferenceMismatch):
		return "reference_mismatch"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateCode):
		return "conflict"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "unavailable"
	default:
		return "internal_error"
	}
}

// ownerScope returns the owner a request is restricted to. Without an
// authenticated caller the request is trusted.
func ownerScope(r *http.Request) string {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return ""
	}
	return caller.OwnerScope()
}

// requireMoneyMovement refuses read-only callers.
func requireMoneyMovement(r *http.Request) error {
	caller, ok := middleware.CallerFromContext(r.Context())
	if ok && !caller.Role.CanMoveMoney() {
		return domain.ErrInsufficientRole
	}
	return nil
}

// decodeJSON reads a request body, refusing unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

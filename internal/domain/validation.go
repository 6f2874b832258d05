package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxOwnerNameLength  = 120
	MaxDescriptionBytes = 255
	DefaultPageSize     = 20
	MaxPageSize         = 100
)

var (
	phoneRegex         = regexp.MustCompile(`^\d{8}$`)
	accountNumberRegex = regexp.MustCompile(`^\d{10,20}$`)
	referenceRegex     = regexp.MustCompile(`^[A-Za-z0-9-]{6,40}$`)
)

// IdentifierKind says how a destination identifier resolves to an account.
type IdentifierKind int

const (
	IdentifierUnknown IdentifierKind = iota
	IdentifierPhone
	IdentifierAccountNumber
)

// ClassifyIdentifier returns how identifier should be looked up.
func ClassifyIdentifier(identifier string) IdentifierKind {
	switch {
	case phoneRegex.MatchString(identifier):
		return IdentifierPhone
	case accountNumberRegex.MatchString(identifier):
		return IdentifierAccountNumber
	default:
		return IdentifierUnknown
	}
}

// NormalizeIdentifier strips the separators users type into phone and
// account numbers.
func NormalizeIdentifier(identifier string) string {
	r := strings.NewReplacer(" ", "", "-", "", ".", "")
	return r.Replace(strings.TrimSpace(identifier))
}

// ValidateIdentifier checks a destination identifier is an 8-digit phone or
// an account number.
func ValidateIdentifier(identifier string) error {
	if ClassifyIdentifier(identifier) == IdentifierUnknown {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
	}
	return nil
}

// ValidateReference checks a client-supplied reference code. Empty means the
// engine generates one.
func ValidateReference(reference string) error {
	if reference == "" || referenceRegex.MatchString(reference) {
		return nil
	}
	return fmt.Errorf("%w: reference must be 6-40 letters, digits or dashes", ErrInvalidRequest)
}

// ValidateAmount checks amount is positive and at cent precision.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDescription bounds the free-text description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionBytes {
		return fmt.Errorf("%w: description exceeds %d bytes", ErrInvalidRequest, MaxDescriptionBytes)
	}
	return nil
}

// ValidateOwnerName validates the display name of an account holder.
func ValidateOwnerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: owner name cannot be empty", ErrInvalidRequest)
	}
	if len(name) > MaxOwnerNameLength {
		return fmt.Errorf("%w: owner name exceeds %d characters", ErrInvalidRequest, MaxOwnerNameLength)
	}
	return nil
}

// ValidatePagination normalizes 1-based page parameters.
func ValidatePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

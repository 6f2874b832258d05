package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		kind  IdentifierKind
	}{
		{"71234567", IdentifierPhone},
		{"1234567890", IdentifierAccountNumber},
		{"10000000000000000001", IdentifierAccountNumber},
		{"7123456", IdentifierUnknown},
		{"712345678", IdentifierUnknown},
		{"7123456a", IdentifierUnknown},
		{"", IdentifierUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyIdentifier(tt.input); got != tt.kind {
			t.Errorf("ClassifyIdentifier(%q) = %v, want %v", tt.input, got, tt.kind)
		}

		err := ValidateIdentifier(tt.input)
		if tt.kind == IdentifierUnknown && !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("ValidateIdentifier(%q) expected ErrInvalidRequest, got %v", tt.input, err)
		}
		if tt.kind != IdentifierUnknown && err != nil {
			t.Errorf("ValidateIdentifier(%q) unexpected error %v", tt.input, err)
		}
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	t.Parallel()

	if got := NormalizeIdentifier(" 7123-4567 "); got != "71234567" {
		t.Fatalf("expected separators stripped, got %q", got)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	t.Run("valid amount", func(t *testing.T) {
		if err := ValidateAmount(decimal.RequireFromString("10.50")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("zero rejected", func(t *testing.T) {
		if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("sub-cent rejected", func(t *testing.T) {
		if err := ValidateAmount(decimal.RequireFromString("1.005")); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("invalid amount is an invalid request", func(t *testing.T) {
		if err := ValidateAmount(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
	})
}

func TestServiceValidateAmount(t *testing.T) {
	t.Parallel()

	svc := &Service{MinAmount: decimal.NewFromInt(1), MaxAmount: decimal.NewFromInt(10000)}

	if err := svc.ValidateAmount(decimal.RequireFromString("0.99")); !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}
	if err := svc.ValidateAmount(decimal.NewFromInt(10001)); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if err := svc.ValidateAmount(decimal.NewFromInt(10000)); err != nil {
		t.Fatalf("expected max amount to be allowed, got %v", err)
	}

	unbounded := &Service{}
	if err := unbounded.ValidateAmount(decimal.NewFromInt(1_000_000)); err != nil {
		t.Fatalf("expected unbounded service to accept amount, got %v", err)
	}
}

func TestValidateOwnerName(t *testing.T) {
	t.Parallel()

	if err := ValidateOwnerName("Maria Quispe"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateOwnerName("   "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if err := ValidateOwnerName(strings.Repeat("a", MaxOwnerNameLength+1)); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{3, 10, 3, 10},
		{-2, 500, 1, MaxPageSize},
	}

	for _, tt := range tests {
		page, size := ValidatePagination(tt.page, tt.size)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
	}
}

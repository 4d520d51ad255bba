package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("Gasolina"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDescription("   "); err == nil {
		t.Error("expected error for blank description")
	}
	if err := ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)); err == nil {
		t.Error("expected error for oversized description")
	}
}

func TestValidateTotal(t *testing.T) {
	if err := ValidateTotal(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTotal(decimal.Zero); err != nil {
		t.Errorf("zero total must be valid: %v", err)
	}
	if err := ValidateTotal(decimal.NewFromInt(-1)); err == nil {
		t.Error("expected error for negative total")
	}
	if err := ValidateTotal(decimal.RequireFromString("100000001")); err == nil {
		t.Error("expected error above maximum")
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, ok := range []string{"", "MXN", "usd", " EUR "} {
		if err := ValidateCurrency(ok); err != nil {
			t.Errorf("ValidateCurrency(%q) unexpected error: %v", ok, err)
		}
	}
	if err := ValidateCurrency("XYZ"); err == nil {
		t.Error("expected error for unknown currency")
	}
}

func TestValidateMovement(t *testing.T) {
	valid := BankMovement{ID: "mov-1", Importe: decimal.NewFromInt(100), Moneda: "MXN"}
	if err := ValidateMovement(valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateMovement(BankMovement{Importe: decimal.NewFromInt(100)}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := ValidateMovement(BankMovement{ID: "mov-2"}); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("defaults = (%d, %d), want (50, 0)", limit, offset)
	}

	limit, _ = ValidatePagination(10000, 0)
	if limit != 500 {
		t.Errorf("limit cap = %d, want 500", limit)
	}
}

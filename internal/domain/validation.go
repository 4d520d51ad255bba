package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxDescriptionLength = 500
	MaxExpenseAmount     = "100000000" // 100 million, per-expense cap
)

// Valid currency codes accepted on tax breakdowns and bank movements.
var validCurrencies = map[string]bool{
	"MXN": true, "USD": true, "EUR": true, "CAD": true, "GBP": true,
}

// ValidateDescription validates the expense description.
func ValidateDescription(desc string) error {
	desc = strings.TrimSpace(desc)

	if desc == "" {
		return ErrEmptyDescription
	}

	if len(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooBig, MaxDescriptionLength)
	}

	return nil
}

// ValidateTotal validates an expense total. Zero is allowed — a zero-total
// expense produces an empty balanced journal.
func ValidateTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxExpenseAmount)
	if total.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxExpenseAmount)
	}

	return nil
}

// ValidateCurrency validates a currency code. Empty defaults to MXN upstream
// and is accepted here.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil
	}

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateDate validates the expense date.
func ValidateDate(date time.Time) error {
	if date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMovement validates a bank movement before linking.
func ValidateMovement(m BankMovement) error {
	if m.ID == "" || m.Importe.IsZero() {
		return ErrInvalidMovement
	}
	return ValidateCurrency(m.Moneda)
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

package domain

import "errors"

var (
	// Expense errors
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrInvalidAmount     = errors.New("total must not be negative")
	ErrInvalidDate       = errors.New("expense date is required")
	ErrEmptyDescription  = errors.New("description is required")
	ErrDescriptionTooBig = errors.New("description exceeds maximum length")
	ErrInvalidCurrency   = errors.New("invalid currency code")

	// Bank movement errors
	ErrMovementNotFound      = errors.New("bank movement not found")
	ErrMovementAlreadyLinked = errors.New("bank movement already linked to the expense")
	ErrInvalidMovement       = errors.New("bank movement requires an id and an amount")
)

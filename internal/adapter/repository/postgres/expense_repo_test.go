package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/hvilla/gastoledger/internal/domain"
)

func sampleExpense() *domain.Expense {
	e := domain.NormalizeExpense(domain.Expense{
		ID:           "exp-1",
		Descripcion:  "Gasolina camioneta reparto",
		Total:        decimal.RequireFromString("845.32"),
		Fecha:        time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Categoria:    domain.CategoryCombustible,
		MetodoPago:   domain.PaymentTransferencia,
		PagadoPor:    domain.PayerCompanyAccount,
		WillHaveCFDI: true,
		CreatedAt:    time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC),
	})
	return &e
}

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	manager := newTxManagerWithPool(pool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx.(*Tx)
}

func TestExpenseRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO expenses").
		WithArgs(
			"exp-1",
			"Gasolina camioneta reparto",
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			"combustible",
			"transferencia",
			"company_account",
			true,
			"", "", "", "", "",
			pgxmock.AnyArg(),
			"pendiente_factura",
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewExpenseRepository(nil)
	tx := beginTx(t, mockPool)

	if err := repo.Create(context.Background(), tx, sampleExpense()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestExpenseRepositoryUpdateNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE expenses").
		WithArgs(
			"exp-1",
			"Gasolina camioneta reparto",
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
			"combustible",
			"transferencia",
			"company_account",
			true,
			"", "", "", "", "",
			pgxmock.AnyArg(),
			"pendiente_factura",
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewExpenseRepository(nil)
	tx := beginTx(t, mockPool)

	err := repo.Update(context.Background(), tx, sampleExpense())
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestMovementRepositoryUnlinkNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("DELETE FROM bank_movements").
		WithArgs("exp-1", "mov-404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewMovementRepository(nil)
	tx := beginTx(t, mockPool)

	err := repo.Unlink(context.Background(), tx, "exp-1", "mov-404")
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestMovementRepositoryLink(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO bank_movements").
		WithArgs(
			"mov-1",
			"exp-1",
			pgxmock.AnyArg(),
			"BBVA",
			"SPEI GASOLINERA",
			pgxmock.AnyArg(),
			"MXN",
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewMovementRepository(nil)
	tx := beginTx(t, mockPool)

	movement := domain.BankMovement{
		ID:          "mov-1",
		Fecha:       time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		Banco:       "BBVA",
		Descripcion: "SPEI GASOLINERA",
		Importe:     decimal.RequireFromString("-845.32"),
		Moneda:      "MXN",
	}

	if err := repo.Link(context.Background(), tx, "exp-1", movement); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hvilla/gastoledger/internal/domain"
	"github.com/hvilla/gastoledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Link attaches a bank movement to an expense inside the given transaction.
func (r *MovementRepository) Link(ctx context.Context, tx usecase.Transaction, expenseID string, movement domain.BankMovement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO bank_movements (id, expense_id, fecha, banco, descripcion, importe, moneda, etiquetas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		movement.ID,
		expenseID,
		timeToPgTimestamptz(movement.Fecha),
		movement.Banco,
		movement.Descripcion,
		decimalToNumeric(movement.Importe),
		movement.Moneda,
		movement.Etiquetas,
	)

	return err
}

// Unlink removes a bank movement from an expense inside the given
// transaction.
func (r *MovementRepository) Unlink(ctx context.Context, tx usecase.Transaction, expenseID, movementID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		DELETE FROM bank_movements
		WHERE expense_id = $1 AND id = $2`, expenseID, movementID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// ListByExpense lists the bank movements linked to an expense.
func (r *MovementRepository) ListByExpense(ctx context.Context, expenseID string) ([]domain.BankMovement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, fecha, banco, descripcion, importe, moneda, etiquetas
		FROM bank_movements
		WHERE expense_id = $1
		ORDER BY fecha, id`, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]domain.BankMovement, 0)
	for rows.Next() {
		var (
			m       domain.BankMovement
			fecha   pgtype.Timestamptz
			importe pgtype.Numeric
		)

		if err := rows.Scan(&m.ID, &fecha, &m.Banco, &m.Descripcion, &importe, &m.Moneda, &m.Etiquetas); err != nil {
			return nil, err
		}

		m.Fecha = fecha.Time
		m.Importe = numericToDecimal(importe)
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

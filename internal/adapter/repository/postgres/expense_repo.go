package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hvilla/gastoledger/internal/domain"
	"github.com/hvilla/gastoledger/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository. Only captured
// fields are persisted; the workflow stage is stored denormalized so
// listings can filter on it without recomputing every row.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, descripcion, total, fecha, categoria, metodo_pago, pagado_por,
	will_have_cfdi, factura_id, factura_url, rfc_proveedor,
	estado_factura_raw, estado_conciliacion_raw, tax_info, workflow_status,
	created_at, updated_at`

// Create inserts a new expense inside the given transaction.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()

	taxInfo, err := marshalTaxInfo(expense.TaxInfo)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		expense.ID,
		expense.Descripcion,
		decimalToNumeric(expense.Total),
		timeToPgTimestamptz(expense.Fecha),
		string(expense.Categoria),
		string(expense.MetodoPago),
		string(expense.PagadoPor),
		expense.WillHaveCFDI,
		expense.FacturaID,
		expense.FacturaURL,
		expense.RFCProveedor,
		expense.EstadoFacturaRaw,
		expense.EstadoConciliacionRaw,
		taxInfo,
		string(expense.Workflow),
		timeToPgTimestamptz(expense.CreatedAt),
		timeToPgTimestamptz(expense.UpdatedAt),
	)

	return err
}

// Update rewrites the captured fields of an expense inside the given
// transaction.
func (r *ExpenseRepository) Update(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()

	taxInfo, err := marshalTaxInfo(expense.TaxInfo)
	if err != nil {
		return err
	}

	tag, err := pgxTx.Exec(ctx, `
		UPDATE expenses SET
			descripcion = $2,
			total = $3,
			fecha = $4,
			categoria = $5,
			metodo_pago = $6,
			pagado_por = $7,
			will_have_cfdi = $8,
			factura_id = $9,
			factura_url = $10,
			rfc_proveedor = $11,
			estado_factura_raw = $12,
			estado_conciliacion_raw = $13,
			tax_info = $14,
			workflow_status = $15,
			updated_at = $16
		WHERE id = $1`,
		expense.ID,
		expense.Descripcion,
		decimalToNumeric(expense.Total),
		timeToPgTimestamptz(expense.Fecha),
		string(expense.Categoria),
		string(expense.MetodoPago),
		string(expense.PagadoPor),
		expense.WillHaveCFDI,
		expense.FacturaID,
		expense.FacturaURL,
		expense.RFCProveedor,
		expense.EstadoFacturaRaw,
		expense.EstadoConciliacionRaw,
		taxInfo,
		string(expense.Workflow),
		timeToPgTimestamptz(expense.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id = $1`, id)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return expense, nil
}

// List lists expenses with pagination, newest first.
func (r *ExpenseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		ORDER BY fecha DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByWorkflow lists expenses in a given workflow stage.
func (r *ExpenseRepository) ListByWorkflow(ctx context.Context, stage domain.WorkflowStage, limit, offset int) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE workflow_status = $1
		ORDER BY fecha DESC, id
		LIMIT $2 OFFSET $3`, string(stage), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenses(rows pgx.Rows) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e         domain.Expense
		total     pgtype.Numeric
		fecha     pgtype.Timestamptz
		categoria string
		metodo    string
		pagadoPor string
		workflow  string
		taxInfo   []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&e.ID,
		&e.Descripcion,
		&total,
		&fecha,
		&categoria,
		&metodo,
		&pagadoPor,
		&e.WillHaveCFDI,
		&e.FacturaID,
		&e.FacturaURL,
		&e.RFCProveedor,
		&e.EstadoFacturaRaw,
		&e.EstadoConciliacionRaw,
		&taxInfo,
		&workflow,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Total = numericToDecimal(total)
	e.Fecha = fecha.Time
	e.Categoria = domain.Category(categoria)
	e.MetodoPago = domain.PaymentMethod(metodo)
	e.PagadoPor = domain.Payer(pagadoPor)
	e.Workflow = domain.WorkflowStage(workflow)
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	if len(taxInfo) > 0 {
		var info domain.TaxInfo
		if err := json.Unmarshal(taxInfo, &info); err != nil {
			return nil, err
		}
		e.TaxInfo = &info
	}

	return &e, nil
}

func marshalTaxInfo(info *domain.TaxInfo) ([]byte, error) {
	if info == nil {
		return nil, nil
	}

	return json.Marshal(info)
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

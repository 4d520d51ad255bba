package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hvilla/gastoledger/internal/domain"
)

// ExpenseUseCase handles expense capture and workflow mutations. Every
// mutation re-runs domain.NormalizeExpense before persisting, so the stored
// record and its journal never drift from the captured fields.
type ExpenseUseCase struct {
	txManager    TransactionManager
	expenseRepo  ExpenseRepository
	movementRepo MovementRepository
	cache        Cache
	idGen        IDGenerator
	retrier      Retrier
	metrics      MetricsRecorder
	cacheTTL     time.Duration
}

// NewExpenseUseCase creates a new ExpenseUseCase. cache and metrics may be
// nil; caching and counters are then skipped.
func NewExpenseUseCase(
	txManager TransactionManager,
	expenseRepo ExpenseRepository,
	movementRepo MovementRepository,
	cache Cache,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
	cacheTTL time.Duration,
) *ExpenseUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &ExpenseUseCase{
		txManager:    txManager,
		expenseRepo:  expenseRepo,
		movementRepo: movementRepo,
		cache:        cache,
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
		cacheTTL:     cacheTTL,
	}
}

// CaptureExpenseInput represents a draft produced by any capture channel.
type CaptureExpenseInput struct {
	Descripcion      string
	Total            decimal.Decimal
	Fecha            time.Time
	Categoria        domain.Category
	MetodoPago       domain.PaymentMethod
	PagadoPor        domain.Payer
	WillHaveCFDI     bool
	FacturaID        string
	FacturaURL       string
	RFCProveedor     string
	EstadoFacturaRaw string
	TaxInfo          *domain.TaxInfo
	Movimientos      []domain.BankMovement
}

func (input CaptureExpenseInput) validate() error {
	if err := domain.ValidateDescription(input.Descripcion); err != nil {
		return err
	}
	if err := domain.ValidateTotal(input.Total); err != nil {
		return err
	}
	if err := domain.ValidateDate(input.Fecha); err != nil {
		return err
	}
	if input.TaxInfo != nil {
		if err := domain.ValidateCurrency(input.TaxInfo.Moneda); err != nil {
			return err
		}
	}
	for _, m := range input.Movimientos {
		if err := domain.ValidateMovement(m); err != nil {
			return err
		}
	}
	return nil
}

// CaptureExpense creates a normalized expense from a draft.
func (uc *ExpenseUseCase) CaptureExpense(ctx context.Context, input CaptureExpenseInput) (*domain.Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expense := domain.NormalizeExpense(domain.Expense{
		ID:               uc.idGen.Generate(),
		Descripcion:      input.Descripcion,
		Total:            input.Total,
		Fecha:            input.Fecha,
		Categoria:        input.Categoria,
		MetodoPago:       input.MetodoPago,
		PagadoPor:        input.PagadoPor,
		WillHaveCFDI:     input.WillHaveCFDI,
		FacturaID:        input.FacturaID,
		FacturaURL:       input.FacturaURL,
		RFCProveedor:     input.RFCProveedor,
		EstadoFacturaRaw: input.EstadoFacturaRaw,
		TaxInfo:          input.TaxInfo,
		Movimientos:      input.Movimientos,
		CreatedAt:        now,
		UpdatedAt:        now,
	})

	err := uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Create(ctx, tx, &expense); err != nil {
			return err
		}
		for _, m := range expense.Movimientos {
			if err := uc.movementRepo.Link(ctx, tx, expense.ID, m); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.recordNormalization(&expense)
	if uc.metrics != nil {
		uc.metrics.ExpenseCaptured()
	}
	uc.cacheSet(ctx, &expense)

	return &expense, nil
}

// GetExpense retrieves a normalized expense, read-through cached.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	if cached := uc.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	expense, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, expense)
	return expense, nil
}

// GetJournal returns only the generated journal of an expense.
func (uc *ExpenseUseCase) GetJournal(ctx context.Context, id string) (*domain.Journal, error) {
	expense, err := uc.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	return expense.Asientos, nil
}

// ListExpensesInput represents input for listing expenses.
type ListExpensesInput struct {
	Workflow domain.WorkflowStage
	Limit    int
	Offset   int
}

// ListExpenses lists normalized expenses, optionally filtered by stage.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	var (
		expenses []*domain.Expense
		err      error
	)
	if input.Workflow != "" {
		expenses, err = uc.expenseRepo.ListByWorkflow(ctx, input.Workflow, limit, offset)
	} else {
		expenses, err = uc.expenseRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Expense, 0, len(expenses))
	for _, e := range expenses {
		movements, err := uc.movementRepo.ListByExpense(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Movimientos = movements
		normalized := domain.NormalizeExpense(*e)
		result = append(result, &normalized)
	}

	return result, nil
}

// RegisterInvoiceInput carries the fields of a parsed CFDI.
type RegisterInvoiceInput struct {
	FacturaID    string
	FacturaURL   string
	RFCProveedor string
	Total        *decimal.Decimal
	TaxInfo      *domain.TaxInfo
}

// RegisterInvoice attaches CFDI data to an expense and moves it to the
// invoiced stage.
func (uc *ExpenseUseCase) RegisterInvoice(ctx context.Context, id string, input RegisterInvoiceInput) (*domain.Expense, error) {
	expense, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FacturaID != "" {
		expense.FacturaID = input.FacturaID
	}
	if input.FacturaURL != "" {
		expense.FacturaURL = input.FacturaURL
	}
	if input.RFCProveedor != "" {
		expense.RFCProveedor = input.RFCProveedor
	}
	if input.Total != nil {
		if err := domain.ValidateTotal(*input.Total); err != nil {
			return nil, err
		}
		expense.Total = *input.Total
	}
	if input.TaxInfo != nil {
		if err := domain.ValidateCurrency(input.TaxInfo.Moneda); err != nil {
			return nil, err
		}
		expense.TaxInfo = input.TaxInfo
	}
	expense.WillHaveCFDI = true
	expense.EstadoFacturaRaw = string(domain.InvoiceFacturado)

	updated, err := uc.save(ctx, *expense)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InvoiceRegistered()
	}
	return updated, nil
}

// MarkInvoiced records a manual "factura registrada" action without a
// parsed CFDI payload.
func (uc *ExpenseUseCase) MarkInvoiced(ctx context.Context, id string) (*domain.Expense, error) {
	expense, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	expense.WillHaveCFDI = true
	expense.EstadoFacturaRaw = string(domain.InvoiceFacturado)

	updated, err := uc.save(ctx, *expense)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InvoiceRegistered()
	}
	return updated, nil
}

// CloseWithoutInvoice closes an expense that will never carry a CFDI.
func (uc *ExpenseUseCase) CloseWithoutInvoice(ctx context.Context, id string) (*domain.Expense, error) {
	expense, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	expense.WillHaveCFDI = false
	expense.EstadoFacturaRaw = "no_requiere"

	return uc.save(ctx, *expense)
}

// LinkMovement links one bank movement to the expense. Split payments are
// allowed: an expense may accumulate several movements.
func (uc *ExpenseUseCase) LinkMovement(ctx context.Context, id string, movement domain.BankMovement) (*domain.Expense, error) {
	if err := domain.ValidateMovement(movement); err != nil {
		return nil, err
	}

	expense, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, m := range expense.Movimientos {
		if m.ID == movement.ID {
			return nil, domain.ErrMovementAlreadyLinked
		}
	}

	expense.Movimientos = append(expense.Movimientos, movement)
	normalized := domain.NormalizeExpense(*expense)
	normalized.UpdatedAt = time.Now().UTC()

	err = uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.movementRepo.Link(ctx, tx, id, movement); err != nil {
			return err
		}
		if err := uc.expenseRepo.Update(ctx, tx, &normalized); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.recordNormalization(&normalized)
	if uc.metrics != nil {
		uc.metrics.MovementLinked()
	}
	uc.cacheDelete(ctx, id)

	return &normalized, nil
}

// UnlinkMovement removes a previously linked bank movement.
func (uc *ExpenseUseCase) UnlinkMovement(ctx context.Context, id, movementID string) (*domain.Expense, error) {
	expense, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := expense.Movimientos[:0:0]
	found := false
	for _, m := range expense.Movimientos {
		if m.ID == movementID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return nil, domain.ErrMovementNotFound
	}

	expense.Movimientos = kept
	normalized := domain.NormalizeExpense(*expense)
	normalized.UpdatedAt = time.Now().UTC()

	err = uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.movementRepo.Unlink(ctx, tx, id, movementID); err != nil {
			return err
		}
		if err := uc.expenseRepo.Update(ctx, tx, &normalized); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.recordNormalization(&normalized)
	if uc.metrics != nil {
		uc.metrics.MovementUnlinked()
	}
	uc.cacheDelete(ctx, id)

	return &normalized, nil
}

// load fetches the stored record with its movements and re-normalizes it.
func (uc *ExpenseUseCase) load(ctx context.Context, id string) (*domain.Expense, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListByExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.Movimientos = movements

	normalized := domain.NormalizeExpense(*expense)
	return &normalized, nil
}

// save normalizes and persists a mutated expense, invalidating its cache
// entry.
func (uc *ExpenseUseCase) save(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	normalized := domain.NormalizeExpense(expense)
	normalized.UpdatedAt = time.Now().UTC()

	err := uc.retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.expenseRepo.Update(ctx, tx, &normalized); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.recordNormalization(&normalized)
	uc.cacheDelete(ctx, expense.ID)

	return &normalized, nil
}

func (uc *ExpenseUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

func (uc *ExpenseUseCase) recordNormalization(e *domain.Expense) {
	if uc.metrics == nil || e.Asientos == nil {
		return
	}
	uc.metrics.JournalGenerated(e.Asientos.Balanceado)
}

func cacheKey(id string) string {
	return "expense:" + id
}

func (uc *ExpenseUseCase) cacheGet(ctx context.Context, id string) *domain.Expense {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, cacheKey(id))
	if err != nil || len(data) == 0 {
		return nil
	}

	var expense domain.Expense
	if err := json.Unmarshal(data, &expense); err != nil {
		return nil
	}
	return &expense
}

func (uc *ExpenseUseCase) cacheSet(ctx context.Context, e *domain.Expense) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	// Best effort: a failed cache write never fails the operation.
	_ = uc.cache.Set(ctx, cacheKey(e.ID), data, uc.cacheTTL)
}

func (uc *ExpenseUseCase) cacheDelete(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, cacheKey(id))
}

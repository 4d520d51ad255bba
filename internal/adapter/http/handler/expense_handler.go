package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hvilla/gastoledger/internal/adapter/http/dto"
	"github.com/hvilla/gastoledger/internal/domain"
	"github.com/hvilla/gastoledger/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CaptureExpense(ctx context.Context, input usecase.CaptureExpenseInput) (*domain.Expense, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	GetJournal(ctx context.Context, id string) (*domain.Journal, error)
	ListExpenses(ctx context.Context, input usecase.ListExpensesInput) ([]*domain.Expense, error)
	RegisterInvoice(ctx context.Context, id string, input usecase.RegisterInvoiceInput) (*domain.Expense, error)
	MarkInvoiced(ctx context.Context, id string) (*domain.Expense, error)
	CloseWithoutInvoice(ctx context.Context, id string) (*domain.Expense, error)
	LinkMovement(ctx context.Context, id string, movement domain.BankMovement) (*domain.Expense, error)
	UnlinkMovement(ctx context.Context, id, movementID string) (*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Capture captures a new expense and returns its normalized form.
func (h *ExpenseHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req dto.CaptureExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.CaptureExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to capture expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Get retrieves a normalized expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get expense", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// List lists normalized expenses, optionally filtered by workflow stage.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)
	workflow := r.URL.Query().Get("workflow")

	expenses, err := h.expenseUC.ListExpenses(r.Context(), usecase.ListExpensesInput{
		Workflow: domain.WorkflowStage(workflow),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListExpensesResponse{
		Expenses: dto.ExpensesFromDomain(expenses),
		Total:    int64(len(expenses)),
	})
}

// RegisterInvoice attaches CFDI data to an expense.
func (h *ExpenseHandler) RegisterInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	var req dto.RegisterInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.RegisterInvoice(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to register invoice", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// MarkInvoiced marks an expense as invoiced without CFDI details.
func (h *ExpenseHandler) MarkInvoiced(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.MarkInvoiced(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to mark invoiced", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// CloseWithoutInvoice closes an expense that will never carry a CFDI.
func (h *ExpenseHandler) CloseWithoutInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.CloseWithoutInvoice(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to close expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// LinkMovement attaches a bank movement to an expense.
func (h *ExpenseHandler) LinkMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	var req dto.LinkMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.LinkMovement(r.Context(), id, req.ToDomain())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to link movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// UnlinkMovement detaches a bank movement from an expense.
func (h *ExpenseHandler) UnlinkMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	movementID := chi.URLParam(r, "movementID")
	if id == "" || movementID == "" {
		writeError(w, http.StatusBadRequest, "missing expense or movement ID", "")
		return
	}

	expense, err := h.expenseUC.UnlinkMovement(r.Context(), id, movementID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to unlink movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// GetJournal returns the generated journal for an expense.
func (h *ExpenseHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	journal, err := h.expenseUC.GetJournal(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get journal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromDomain(journal))
}

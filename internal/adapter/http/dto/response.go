package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hvilla/gastoledger/internal/domain"
)

// ExpenseResponse represents a normalized expense in API responses.
type ExpenseResponse struct {
	ID           string          `json:"id"`
	Descripcion  string          `json:"descripcion"`
	Total        decimal.Decimal `json:"total"`
	Fecha        time.Time       `json:"fecha"`
	Categoria    string          `json:"categoria"`
	MetodoPago   string          `json:"metodo_pago"`
	PagadoPor    string          `json:"paid_by"`
	WillHaveCFDI bool            `json:"will_have_cfdi"`

	FacturaID    string                `json:"factura_id,omitempty"`
	FacturaURL   string                `json:"factura_url,omitempty"`
	RFCProveedor string                `json:"rfc_proveedor,omitempty"`
	TaxInfo      *domain.TaxInfo       `json:"tax_info,omitempty"`
	Movimientos  []domain.BankMovement `json:"movimientos,omitempty"`

	EstadoFactura      string               `json:"estado_factura"`
	EstadoConciliacion string               `json:"estado_conciliacion"`
	Workflow           string               `json:"workflow_status"`
	InvoiceMeta        domain.StatusMeta    `json:"invoice_status_meta"`
	BankMeta           domain.StatusMeta    `json:"bank_status_meta"`
	Completitud        *domain.Completeness `json:"completitud,omitempty"`
	Asientos           *domain.Journal      `json:"asientos_contables,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:                 e.ID,
		Descripcion:        e.Descripcion,
		Total:              e.Total,
		Fecha:              e.Fecha,
		Categoria:          string(e.Categoria),
		MetodoPago:         string(e.MetodoPago),
		PagadoPor:          string(e.PagadoPor),
		WillHaveCFDI:       e.WillHaveCFDI,
		FacturaID:          e.FacturaID,
		FacturaURL:         e.FacturaURL,
		RFCProveedor:       e.RFCProveedor,
		TaxInfo:            e.TaxInfo,
		Movimientos:        e.Movimientos,
		EstadoFactura:      string(e.EstadoFactura),
		EstadoConciliacion: string(e.EstadoConciliacion),
		Workflow:           string(e.Workflow),
		InvoiceMeta:        e.InvoiceMeta,
		BankMeta:           e.BankMeta,
		Completitud:        e.Completitud,
		Asientos:           e.Asientos,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// JournalResponse represents a generated journal in API responses.
type JournalResponse struct {
	NumeroPoliza string               `json:"numero_poliza"`
	TipoPoliza   string               `json:"tipo_poliza"`
	FechaAsiento time.Time            `json:"fecha_asiento"`
	Concepto     string               `json:"concepto"`
	Movimientos  []domain.JournalLine `json:"movimientos"`
	TotalDebe    decimal.Decimal      `json:"total_debe"`
	TotalHaber   decimal.Decimal      `json:"total_haber"`
	Balanceado   bool                 `json:"balanceado"`
}

// JournalFromDomain converts a domain journal to a response.
func JournalFromDomain(j *domain.Journal) *JournalResponse {
	return &JournalResponse{
		NumeroPoliza: j.NumeroPoliza,
		TipoPoliza:   j.TipoPoliza,
		FechaAsiento: j.FechaAsiento,
		Concepto:     j.Concepto,
		Movimientos:  j.Movimientos,
		TotalDebe:    j.TotalDebe,
		TotalHaber:   j.TotalHaber,
		Balanceado:   j.Balanceado,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

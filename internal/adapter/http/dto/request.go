package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hvilla/gastoledger/internal/domain"
	"github.com/hvilla/gastoledger/internal/usecase"
)

// CaptureExpenseRequest represents a request to capture an expense.
type CaptureExpenseRequest struct {
	Descripcion   string                `json:"descripcion"`
	Total         decimal.Decimal       `json:"total"`
	Fecha         time.Time             `json:"fecha"`
	Categoria     string                `json:"categoria"`
	MetodoPago    string                `json:"metodo_pago"`
	PagadoPor     string                `json:"paid_by"`
	WillHaveCFDI  bool                  `json:"will_have_cfdi"`
	FacturaID     string                `json:"factura_id,omitempty"`
	FacturaURL    string                `json:"factura_url,omitempty"`
	RFCProveedor  string                `json:"rfc_proveedor,omitempty"`
	EstadoFactura string                `json:"estado_factura,omitempty"`
	TaxInfo       *TaxInfoPayload       `json:"tax_info,omitempty"`
	Movimientos   []BankMovementPayload `json:"movimientos,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CaptureExpenseRequest) ToUseCaseInput() usecase.CaptureExpenseInput {
	return usecase.CaptureExpenseInput{
		Descripcion:      r.Descripcion,
		Total:            r.Total,
		Fecha:            r.Fecha,
		Categoria:        domain.Category(r.Categoria),
		MetodoPago:       domain.PaymentMethod(r.MetodoPago),
		PagadoPor:        domain.Payer(r.PagadoPor),
		WillHaveCFDI:     r.WillHaveCFDI,
		FacturaID:        r.FacturaID,
		FacturaURL:       r.FacturaURL,
		RFCProveedor:     r.RFCProveedor,
		EstadoFacturaRaw: r.EstadoFactura,
		TaxInfo:          r.TaxInfo.ToDomain(),
		Movimientos:      movementsToDomain(r.Movimientos),
	}
}

// TaxInfoPayload carries tax details parsed from a CFDI.
type TaxInfoPayload struct {
	Subtotal       *decimal.Decimal `json:"subtotal,omitempty"`
	Total          decimal.Decimal  `json:"total"`
	Moneda         string           `json:"moneda"`
	Taxes          []TaxLinePayload `json:"taxes"`
	IVAAmount      *decimal.Decimal `json:"iva_amount,omitempty"`
	OtrosImpuestos *decimal.Decimal `json:"other_taxes,omitempty"`
}

// TaxLinePayload is a single tax within a TaxInfoPayload.
type TaxLinePayload struct {
	Tipo    string          `json:"tipo"`
	Kind    string          `json:"kind"`
	Tasa    decimal.Decimal `json:"tasa"`
	Importe decimal.Decimal `json:"importe"`
}

// ToDomain converts to the domain tax structure. Nil payloads map to nil.
func (p *TaxInfoPayload) ToDomain() *domain.TaxInfo {
	if p == nil {
		return nil
	}
	taxes := make([]domain.TaxLine, len(p.Taxes))
	for i, t := range p.Taxes {
		taxes[i] = domain.TaxLine{
			Tipo:    domain.TaxType(t.Tipo),
			Kind:    domain.TaxKind(t.Kind),
			Tasa:    t.Tasa,
			Importe: t.Importe,
		}
	}
	return &domain.TaxInfo{
		Subtotal:       p.Subtotal,
		Total:          p.Total,
		Moneda:         p.Moneda,
		Taxes:          taxes,
		IVAAmount:      p.IVAAmount,
		OtrosImpuestos: p.OtrosImpuestos,
	}
}

// BankMovementPayload represents a bank movement in requests.
type BankMovementPayload struct {
	ID          string          `json:"id"`
	Fecha       time.Time       `json:"fecha"`
	Banco       string          `json:"banco"`
	Descripcion string          `json:"descripcion"`
	Importe     decimal.Decimal `json:"importe"`
	Moneda      string          `json:"moneda"`
	Etiquetas   []string        `json:"etiquetas,omitempty"`
}

// ToDomain converts to a domain bank movement.
func (p BankMovementPayload) ToDomain() domain.BankMovement {
	return domain.BankMovement{
		ID:          p.ID,
		Fecha:       p.Fecha,
		Banco:       p.Banco,
		Descripcion: p.Descripcion,
		Importe:     p.Importe,
		Moneda:      p.Moneda,
		Etiquetas:   p.Etiquetas,
	}
}

func movementsToDomain(payloads []BankMovementPayload) []domain.BankMovement {
	if len(payloads) == 0 {
		return nil
	}
	movements := make([]domain.BankMovement, len(payloads))
	for i, p := range payloads {
		movements[i] = p.ToDomain()
	}
	return movements
}

// RegisterInvoiceRequest represents a request to attach CFDI data.
type RegisterInvoiceRequest struct {
	FacturaID    string           `json:"factura_id"`
	FacturaURL   string           `json:"factura_url,omitempty"`
	RFCProveedor string           `json:"rfc_proveedor,omitempty"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	TaxInfo      *TaxInfoPayload  `json:"tax_info,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterInvoiceRequest) ToUseCaseInput() usecase.RegisterInvoiceInput {
	return usecase.RegisterInvoiceInput{
		FacturaID:    r.FacturaID,
		FacturaURL:   r.FacturaURL,
		RFCProveedor: r.RFCProveedor,
		Total:        r.Total,
		TaxInfo:      r.TaxInfo.ToDomain(),
	}
}

// LinkMovementRequest represents a request to link a bank movement.
type LinkMovementRequest struct {
	BankMovementPayload
}

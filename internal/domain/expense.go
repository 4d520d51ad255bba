package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies an expense for account resolution.
type Category string

const (
	CategoryCombustible   Category = "combustible"
	CategoryAlimentos     Category = "alimentos"
	CategoryHospedaje     Category = "hospedaje"
	CategoryTransporte    Category = "transporte"
	CategoryPapeleria     Category = "papeleria"
	CategoryMantenimiento Category = "mantenimiento"
	CategoryPublicidad    Category = "publicidad"
	CategoryHonorarios    Category = "honorarios"
	CategoryRenta         Category = "renta"
	CategoryOtros         Category = "otros"
)

// PaymentMethod is how the expense was paid.
type PaymentMethod string

const (
	PaymentEfectivo      PaymentMethod = "efectivo"
	PaymentTransferencia PaymentMethod = "transferencia"
	PaymentTarjeta       PaymentMethod = "tarjeta"
)

// Payer identifies whose money covered the expense.
type Payer string

const (
	PayerCompanyAccount Payer = "company_account"
	PayerOwnAccount     Payer = "own_account"
	PayerCorporateCard  Payer = "corporate_card"
)

// TaxKind splits a tax line between the two sides of the ledger.
type TaxKind string

const (
	TaxTraslado  TaxKind = "traslado"
	TaxRetencion TaxKind = "retencion"
)

// TaxType is the fiscal tax identity of one breakdown row.
type TaxType string

const (
	TaxIVA  TaxType = "IVA"
	TaxISR  TaxType = "ISR"
	TaxIEPS TaxType = "IEPS"
	TaxOtro TaxType = "OTRO"
)

// TaxLine is one row of a CFDI tax breakdown.
type TaxLine struct {
	Tipo    TaxType         `json:"tipo"`
	Kind    TaxKind         `json:"kind"`
	Tasa    decimal.Decimal `json:"tasa"`
	Importe decimal.Decimal `json:"importe"`
}

// TaxInfo is the tax breakdown attached to an expense, as received from the
// CFDI parser or captured manually.
type TaxInfo struct {
	Subtotal       *decimal.Decimal `json:"subtotal,omitempty"`
	Total          decimal.Decimal  `json:"total"`
	Moneda         string           `json:"moneda"`
	Taxes          []TaxLine        `json:"taxes"`
	IVAAmount      *decimal.Decimal `json:"iva_amount,omitempty"`
	OtrosImpuestos *decimal.Decimal `json:"other_taxes,omitempty"`
}

// SumByKind adds the amounts of every tax line matching kind. Negative
// amounts from malformed upstream data are ignored.
func (t *TaxInfo) SumByKind(kind TaxKind) decimal.Decimal {
	sum := decimal.Zero
	if t == nil {
		return sum
	}
	for _, line := range t.Taxes {
		if line.Kind == kind && line.Importe.IsPositive() {
			sum = sum.Add(line.Importe)
		}
	}
	return round2(sum)
}

// BankMovement is an external bank transaction linked to an expense.
type BankMovement struct {
	ID          string          `json:"id"`
	Fecha       time.Time       `json:"fecha"`
	Banco       string          `json:"banco"`
	Descripcion string          `json:"descripcion"`
	Importe     decimal.Decimal `json:"importe"`
	Moneda      string          `json:"moneda"`
	Etiquetas   []string        `json:"etiquetas,omitempty"`
}

// Expense is the unit of work. Captured fields come from a capture channel
// or a mutation; derived fields are recomputed by NormalizeExpense on every
// mutation and are never directly settable.
type Expense struct {
	ID           string          `json:"id"`
	Descripcion  string          `json:"descripcion"`
	Total        decimal.Decimal `json:"total"`
	Fecha        time.Time       `json:"fecha"`
	Categoria    Category        `json:"categoria"`
	MetodoPago   PaymentMethod   `json:"metodo_pago"`
	PagadoPor    Payer           `json:"paid_by"`
	WillHaveCFDI bool            `json:"will_have_cfdi"`

	// Raw upstream inputs.
	FacturaID             string         `json:"factura_id,omitempty"`
	FacturaURL            string         `json:"factura_url,omitempty"`
	RFCProveedor          string         `json:"rfc_proveedor,omitempty"`
	EstadoFacturaRaw      string         `json:"estado_factura_raw,omitempty"`
	EstadoConciliacionRaw string         `json:"estado_conciliacion_raw,omitempty"`
	TaxInfo               *TaxInfo       `json:"tax_info,omitempty"`
	Movimientos           []BankMovement `json:"movimientos,omitempty"`

	// Derived, owned by NormalizeExpense.
	EstadoFactura      InvoiceStatus `json:"estado_factura"`
	EstadoConciliacion BankStatus    `json:"estado_conciliacion"`
	Workflow           WorkflowStage `json:"workflow_status"`
	InvoiceMeta        StatusMeta    `json:"invoice_status_meta"`
	BankMeta           StatusMeta    `json:"bank_status_meta"`
	Completitud        *Completeness `json:"completitud,omitempty"`
	Asientos           *Journal      `json:"asientos_contables,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasMovement reports whether at least one bank movement is linked.
func (e *Expense) HasMovement() bool {
	return len(e.Movimientos) > 0
}

// HasRFC reports whether a provider tax id is present.
func (e *Expense) HasRFC() bool {
	return e.RFCProveedor != ""
}

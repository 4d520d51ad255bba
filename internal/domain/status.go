package domain

import "strings"

// InvoiceStatus is the canonical invoice dimension of an expense.
type InvoiceStatus string

const (
	InvoiceFacturado  InvoiceStatus = "facturado"
	InvoicePendiente  InvoiceStatus = "pendiente"
	InvoiceSinFactura InvoiceStatus = "sin_factura"
)

// BankStatus is the canonical bank-reconciliation dimension of an expense.
type BankStatus string

const (
	BankConciliado        BankStatus = "conciliado_banco"
	BankPendienteBancaria BankStatus = "pendiente_bancaria"
	BankPendienteFactura  BankStatus = "pendiente_factura"
	BankSinFactura        BankStatus = "sin_factura"
)

// WorkflowStage is the derived lifecycle position of an expense.
type WorkflowStage string

const (
	StageCapturado         WorkflowStage = "capturado"
	StagePendienteFactura  WorkflowStage = "pendiente_factura"
	StageFacturado         WorkflowStage = "facturado"
	StageConciliadoBanco   WorkflowStage = "conciliado_banco"
	StageCerradoSinFactura WorkflowStage = "cerrado_sin_factura"
)

// invoiceSynonyms maps upstream invoice status vocabulary to canonical values.
// Unknown tokens fall through to the substring heuristics below.
var invoiceSynonyms = map[string]InvoiceStatus{
	"facturado":           InvoiceFacturado,
	"pagado":              InvoiceFacturado,
	"timbrado":            InvoiceFacturado,
	"cerrada_con_factura": InvoiceFacturado,
	"factura_pagada":      InvoiceFacturado,
	"pendiente":           InvoicePendiente,
	"pendiente_factura":   InvoicePendiente,
	"registrada":          InvoicePendiente,
	"en_revision":         InvoicePendiente,
	"capturado":           InvoicePendiente,
	"sin_factura":         InvoiceSinFactura,
	"no_requiere":         InvoiceSinFactura,
	"cancelada":           InvoiceSinFactura,
}

var bankSynonyms = map[string]BankStatus{
	"conciliado_banco":   BankConciliado,
	"conciliado_parcial": BankConciliado,
	"conciliado_manual":  BankConciliado,
	"pendiente_bancaria": BankPendienteBancaria,
	"por_conciliar":      BankPendienteBancaria,
	"pendiente_pago":     BankPendienteBancaria,
	"pendiente_factura":  BankPendienteFactura,
	"sin_factura":        BankSinFactura,
}

// NormalizeInvoiceStatus maps an upstream invoice status token to its
// canonical value. When the expense will never carry a CFDI the raw value is
// ignored entirely.
func NormalizeInvoiceStatus(raw string, willHaveCFDI bool) InvoiceStatus {
	if !willHaveCFDI {
		return InvoiceSinFactura
	}

	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return InvoicePendiente
	}

	if status, ok := invoiceSynonyms[token]; ok {
		return status
	}

	// Substring heuristics for vocabulary the table does not know.
	switch {
	case strings.Contains(token, "fact"):
		return InvoiceFacturado
	case strings.Contains(token, "sin"), strings.Contains(token, "no requiere"):
		return InvoiceSinFactura
	default:
		return InvoicePendiente
	}
}

// NormalizeBankStatus maps an upstream bank status token to its canonical
// value. When the token is unknown the status is derived from the already
// normalized invoice status and whether a bank movement is linked.
func NormalizeBankStatus(raw string, invoice InvoiceStatus, hasMovement bool) BankStatus {
	token := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := bankSynonyms[token]; ok {
		return status
	}

	switch invoice {
	case InvoiceFacturado:
		if hasMovement {
			return BankConciliado
		}
		return BankPendienteBancaria
	case InvoicePendiente:
		return BankPendienteFactura
	default:
		return BankSinFactura
	}
}

// DeriveWorkflow collapses the two status dimensions into a single stage.
func DeriveWorkflow(invoice InvoiceStatus, bank BankStatus) WorkflowStage {
	switch invoice {
	case InvoiceSinFactura:
		return StageCerradoSinFactura
	case InvoiceFacturado:
		if bank == BankConciliado {
			return StageConciliadoBanco
		}
		return StageFacturado
	default:
		return StagePendienteFactura
	}
}

// StatusMeta carries display metadata for one canonical status.
type StatusMeta struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Accent      string `json:"accent"`
	Stage       int    `json:"stage"`
}

var invoiceStatusMeta = map[InvoiceStatus]StatusMeta{
	InvoicePendiente: {
		Label:       "Pendiente de factura",
		Description: "El gasto espera su CFDI",
		Accent:      "amber",
		Stage:       1,
	},
	InvoiceFacturado: {
		Label:       "Facturado",
		Description: "CFDI registrado para el gasto",
		Accent:      "green",
		Stage:       2,
	},
	InvoiceSinFactura: {
		Label:       "Sin factura",
		Description: "Cerrado sin comprobante fiscal",
		Accent:      "gray",
		Stage:       3,
	},
}

var bankStatusMeta = map[BankStatus]StatusMeta{
	BankPendienteFactura: {
		Label:       "Esperando factura",
		Description: "La conciliación inicia al facturar",
		Accent:      "gray",
		Stage:       0,
	},
	BankPendienteBancaria: {
		Label:       "Por conciliar",
		Description: "Sin movimiento bancario vinculado",
		Accent:      "amber",
		Stage:       1,
	},
	BankConciliado: {
		Label:       "Conciliado",
		Description: "Movimiento bancario vinculado",
		Accent:      "green",
		Stage:       2,
	},
	BankSinFactura: {
		Label:       "No aplica",
		Description: "Gasto cerrado sin factura",
		Accent:      "gray",
		Stage:       0,
	},
}

// defaultInvoiceMeta covers any status outside the table. The normalizers
// only emit known statuses, but a lookup must never fail.
var defaultInvoiceMeta = StatusMeta{
	Label:       "Seguimiento en curso",
	Description: "Estado en seguimiento",
	Accent:      "gray",
	Stage:       0,
}

var defaultBankMeta = StatusMeta{
	Label:       "Sin conciliación",
	Description: "Estado bancario en seguimiento",
	Accent:      "gray",
	Stage:       0,
}

// InvoiceStatusMeta returns display metadata for an invoice status.
func InvoiceStatusMeta(status InvoiceStatus) StatusMeta {
	if meta, ok := invoiceStatusMeta[status]; ok {
		return meta
	}
	return defaultInvoiceMeta
}

// BankStatusMeta returns display metadata for a bank status.
func BankStatusMeta(status BankStatus) StatusMeta {
	if meta, ok := bankStatusMeta[status]; ok {
		return meta
	}
	return defaultBankMeta
}

package domain

import "math"

// CompletenessLevel buckets the completeness percentage.
type CompletenessLevel string

const (
	CompletenessCompleto   CompletenessLevel = "completo"
	CompletenessParcial    CompletenessLevel = "parcial"
	CompletenessIncompleto CompletenessLevel = "incompleto"
)

// Criterion names used in the Criterios map and Detalles breakdown.
const (
	CriterionDatosBasicos    = "datos_basicos"
	CriterionAsientos        = "asientos_generados"
	CriterionFacturaRecibida = "factura_recibida"
	CriterionRFCProveedor    = "rfc_proveedor"
	CriterionConciliacion    = "conciliacion_bancaria"
)

// CompletenessDetail is one scored criterion.
type CompletenessDetail struct {
	Criterio string `json:"criterio"`
	Puntos   int    `json:"puntos"`
	Cumplido bool   `json:"cumplido"`
}

// Completeness is the weighted evidence score of an expense. Callers display
// the breakdown ("N steps missing"), not only the percentage.
type Completeness struct {
	Porcentaje    int                  `json:"porcentaje"`
	Estado        CompletenessLevel    `json:"estado"`
	Puntos        int                  `json:"puntos"`
	PuntosTotales int                  `json:"puntos_totales"`
	Criterios     map[string]bool      `json:"criterios"`
	Detalles      []CompletenessDetail `json:"detalles"`
	Faltantes     int                  `json:"faltantes"`
}

// Criterion weights. An expense that requires invoicing can reach 11 points,
// one that does not can reach 7.
const (
	pointsDatosBasicos = 2
	pointsAsientos     = 2
	pointsFactura      = 3
	pointsRFC          = 1
	pointsConciliacion = 3
)

// CalculateCompleteness scores how much required evidence is present.
// Basic data and generated ledger always hold for a constructed record; the
// invoice and RFC criteria only apply when the expense will carry a CFDI.
// The reconciliation criterion holds when the expense is bank-reconciled or
// never needed an invoice.
func CalculateCompleteness(willHaveCFDI bool, invoice InvoiceStatus, bank BankStatus, hasRFC bool) *Completeness {
	details := []CompletenessDetail{
		{Criterio: CriterionDatosBasicos, Puntos: pointsDatosBasicos, Cumplido: true},
		{Criterio: CriterionAsientos, Puntos: pointsAsientos, Cumplido: true},
	}

	if willHaveCFDI {
		details = append(details,
			CompletenessDetail{
				Criterio: CriterionFacturaRecibida,
				Puntos:   pointsFactura,
				Cumplido: invoice == InvoiceFacturado,
			},
			CompletenessDetail{
				Criterio: CriterionRFCProveedor,
				Puntos:   pointsRFC,
				Cumplido: hasRFC,
			},
		)
	}

	details = append(details, CompletenessDetail{
		Criterio: CriterionConciliacion,
		Puntos:   pointsConciliacion,
		Cumplido: !willHaveCFDI || bank == BankConciliado,
	})

	score, total, missing := 0, 0, 0
	criteria := make(map[string]bool, len(details))
	for _, d := range details {
		total += d.Puntos
		criteria[d.Criterio] = d.Cumplido
		if d.Cumplido {
			score += d.Puntos
		} else {
			missing++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(100 * float64(score) / float64(total)))
	}

	level := CompletenessIncompleto
	switch {
	case pct == 100:
		level = CompletenessCompleto
	case pct >= 70:
		level = CompletenessParcial
	}

	return &Completeness{
		Porcentaje:    pct,
		Estado:        level,
		Puntos:        score,
		PuntosTotales: total,
		Criterios:     criteria,
		Detalles:      details,
		Faltantes:     missing,
	}
}

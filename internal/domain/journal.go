package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Journal line type tags.
const (
	LineGasto       = "gasto"
	LineImpuesto    = "impuesto_acreditable"
	LineProveedor   = "proveedor"
	LinePagoBanco   = "pago_banco"
	LinePago        = "pago"
	LineRetencion   = "retencion"
	PolizaDiario    = "diario"
	PolizaEgresos   = "egresos"
	balanceScale    = 2
	balanceEpsilonS = "0.01"
)

var balanceEpsilon = decimal.RequireFromString(balanceEpsilonS)

// round2 rounds to 2 decimals (half away from zero). Applied before every
// comparison and before totals so drift cannot accumulate across lines.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(balanceScale)
}

// JournalLine is one debit or credit movement of a journal.
type JournalLine struct {
	Cuenta       string          `json:"cuenta"`
	NombreCuenta string          `json:"nombre_cuenta"`
	Descripcion  string          `json:"descripcion"`
	Debe         decimal.Decimal `json:"debe"`
	Haber        decimal.Decimal `json:"haber"`
	Tipo         string          `json:"tipo"`
}

// Journal is a balanced set of debit and credit lines for one expense.
type Journal struct {
	NumeroPoliza string          `json:"numero_poliza"`
	TipoPoliza   string          `json:"tipo_poliza"`
	FechaAsiento time.Time       `json:"fecha_asiento"`
	Concepto     string          `json:"concepto"`
	Movimientos  []JournalLine   `json:"movimientos"`
	TotalDebe    decimal.Decimal `json:"total_debe"`
	TotalHaber   decimal.Decimal `json:"total_haber"`
	Balanceado   bool            `json:"balanceado"`
}

// GenerateJournal produces the journal for one expense, deterministically,
// from its category, total, tax breakdown, payer and workflow state. It
// never fails: unknown categories, tax types and payers resolve through
// fallback accounts, malformed tax data is clamped, and an expense with no
// total and no taxes yields an empty balanced journal.
func GenerateJournal(e *Expense) *Journal {
	j := &Journal{
		NumeroPoliza: policyNumber(e),
		TipoPoliza:   policyType(e),
		FechaAsiento: e.Fecha,
		Concepto:     policyConcept(e),
		TotalDebe:    decimal.Zero,
		TotalHaber:   decimal.Zero,
	}

	total := round2(e.Total)
	trasladoSum := e.TaxInfo.SumByKind(TaxTraslado)
	retencionSum := e.TaxInfo.SumByKind(TaxRetencion)

	// Subtotal: explicit when the breakdown supplies one, otherwise derived
	// from the total and the tax sums, clamped at zero.
	var subtotal decimal.Decimal
	if e.TaxInfo != nil && e.TaxInfo.Subtotal != nil {
		subtotal = round2(*e.TaxInfo.Subtotal)
	} else {
		subtotal = round2(total.Add(retencionSum).Sub(trasladoSum))
		if subtotal.IsNegative() {
			subtotal = decimal.Zero
		}
	}

	expenseAcc := ExpenseAccount(e.Categoria)

	if subtotal.IsPositive() {
		j.debit(expenseAcc, lineDescription(e), subtotal, LineGasto)
	}

	if e.TaxInfo != nil {
		for _, tax := range e.TaxInfo.Taxes {
			if tax.Kind != TaxTraslado || !tax.Importe.IsPositive() {
				continue
			}
			acc := TaxAccount(tax.Tipo, TaxTraslado)
			j.debit(acc, taxDescription(tax), round2(tax.Importe), LineImpuesto)
		}
	}

	// Malformed tax data can leave the debit side empty while the expense
	// still carries a total. Force the full total in that case.
	if !j.TotalDebe.IsPositive() && total.IsPositive() {
		j.debit(expenseAcc, lineDescription(e), total, LineGasto)
	}

	counterAmount := round2(j.TotalDebe.Sub(retencionSum))
	if counterAmount.IsPositive() {
		acc, tipo := counterAccount(e)
		j.credit(acc, lineDescription(e), counterAmount, tipo)
	}

	if e.TaxInfo != nil {
		for _, tax := range e.TaxInfo.Taxes {
			if tax.Kind != TaxRetencion || !tax.Importe.IsPositive() {
				continue
			}
			acc := TaxAccount(tax.Tipo, TaxRetencion)
			j.credit(acc, taxDescription(tax), round2(tax.Importe), LineRetencion)
		}
	}

	j.rebalance()

	return j
}

// counterAccount resolves the credit side of the journal. An invoiced
// expense owes the provider until the payment clears through the bank; a
// not-yet-invoiced one credits whoever paid.
func counterAccount(e *Expense) (Account, string) {
	if e.EstadoFactura == InvoiceFacturado {
		if e.EstadoConciliacion == BankConciliado {
			return BancosAccount, LinePagoBanco
		}
		return ProveedoresAccount, LineProveedor
	}
	return PayerAccount(e.PagadoPor), LinePago
}

func (j *Journal) debit(acc Account, desc string, amount decimal.Decimal, tipo string) {
	j.Movimientos = append(j.Movimientos, JournalLine{
		Cuenta:       acc.Codigo,
		NombreCuenta: acc.Nombre,
		Descripcion:  desc,
		Debe:         amount,
		Haber:        decimal.Zero,
		Tipo:         tipo,
	})
	j.TotalDebe = round2(j.TotalDebe.Add(amount))
}

func (j *Journal) credit(acc Account, desc string, amount decimal.Decimal, tipo string) {
	j.Movimientos = append(j.Movimientos, JournalLine{
		Cuenta:       acc.Codigo,
		NombreCuenta: acc.Nombre,
		Descripcion:  desc,
		Debe:         decimal.Zero,
		Haber:        amount,
		Tipo:         tipo,
	})
	j.TotalHaber = round2(j.TotalHaber.Add(amount))
}

// rebalance absorbs any residual between the two sides into the first credit
// line, or the first debit line when no credit exists. The target choice is
// an intentional tie-break carried over from the original workflow; it keeps
// the journal balanced without inventing a new line.
func (j *Journal) rebalance() {
	j.recomputeTotals()

	diff := j.TotalDebe.Sub(j.TotalHaber)
	if diff.Abs().GreaterThanOrEqual(balanceEpsilon) {
		if idx := j.firstCreditIndex(); idx >= 0 {
			j.Movimientos[idx].Haber = round2(j.Movimientos[idx].Haber.Add(diff))
		} else if idx := j.firstDebitIndex(); idx >= 0 {
			j.Movimientos[idx].Debe = round2(j.Movimientos[idx].Debe.Sub(diff))
		}
		j.recomputeTotals()
		diff = j.TotalDebe.Sub(j.TotalHaber)
	}

	j.Balanceado = diff.Abs().LessThan(balanceEpsilon)
}

func (j *Journal) recomputeTotals() {
	debe, haber := decimal.Zero, decimal.Zero
	for _, m := range j.Movimientos {
		debe = debe.Add(m.Debe)
		haber = haber.Add(m.Haber)
	}
	j.TotalDebe = round2(debe)
	j.TotalHaber = round2(haber)
}

func (j *Journal) firstCreditIndex() int {
	for i, m := range j.Movimientos {
		if m.Haber.IsPositive() {
			return i
		}
	}
	return -1
}

func (j *Journal) firstDebitIndex() int {
	for i, m := range j.Movimientos {
		if !m.Debe.IsZero() {
			return i
		}
	}
	return -1
}

func policyNumber(e *Expense) string {
	ref := e.ID
	if ref == "" {
		ref = e.Fecha.Format("20060102")
	}
	return "POL-" + ref
}

func policyType(e *Expense) string {
	if e.EstadoConciliacion == BankConciliado {
		return PolizaEgresos
	}
	return PolizaDiario
}

func policyConcept(e *Expense) string {
	if e.Descripcion == "" {
		return "Gasto sin descripción"
	}
	return fmt.Sprintf("Gasto: %s", e.Descripcion)
}

func lineDescription(e *Expense) string {
	if e.Descripcion == "" {
		return "Gasto"
	}
	return e.Descripcion
}

func taxDescription(tax TaxLine) string {
	kind := "acreditable"
	if tax.Kind == TaxRetencion {
		kind = "retenido"
	}
	if tax.Tasa.IsPositive() {
		rate := tax.Tasa.Mul(decimal.NewFromInt(100))
		return fmt.Sprintf("%s %s (%s%%)", tax.Tipo, kind, rate.String())
	}
	return fmt.Sprintf("%s %s", tax.Tipo, kind)
}

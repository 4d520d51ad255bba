package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fuelExpense() Expense {
	return Expense{
		ID:           "01J5TEST",
		Descripcion:  "Gasolina camioneta",
		Total:        dec("845.32"),
		Fecha:        time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Categoria:    CategoryCombustible,
		PagadoPor:    PayerCompanyAccount,
		WillHaveCFDI: true,
		TaxInfo: &TaxInfo{
			Subtotal: decPtr("728.72"),
			Total:    dec("845.32"),
			Moneda:   "MXN",
			Taxes: []TaxLine{
				{Tipo: TaxIVA, Kind: TaxTraslado, Tasa: dec("0.16"), Importe: dec("116.60")},
			},
		},
		EstadoFactura:      InvoicePendiente,
		EstadoConciliacion: BankPendienteFactura,
	}
}

func findLine(t *testing.T, j *Journal, cuenta string) JournalLine {
	t.Helper()
	for _, m := range j.Movimientos {
		if m.Cuenta == cuenta {
			return m
		}
	}
	t.Fatalf("journal has no line for account %s: %+v", cuenta, j.Movimientos)
	return JournalLine{}
}

func assertBalanced(t *testing.T, j *Journal) {
	t.Helper()
	if !j.Balanceado {
		t.Fatalf("journal not balanced: debe=%s haber=%s", j.TotalDebe, j.TotalHaber)
	}
	if j.TotalDebe.Sub(j.TotalHaber).Abs().GreaterThanOrEqual(dec("0.01")) {
		t.Fatalf("totals differ beyond tolerance: debe=%s haber=%s", j.TotalDebe, j.TotalHaber)
	}
}

func TestGenerateJournal_PendingInvoiceCreditsPayerAccount(t *testing.T) {
	e := fuelExpense()
	j := GenerateJournal(&e)

	expense := findLine(t, j, "601-01")
	if expense.NombreCuenta != "Combustibles y lubricantes" {
		t.Errorf("unexpected expense account name %q", expense.NombreCuenta)
	}
	if !expense.Debe.Equal(dec("728.72")) {
		t.Errorf("expense debit = %s, want 728.72", expense.Debe)
	}

	iva := findLine(t, j, "118-01")
	if iva.NombreCuenta != "IVA acreditable pendiente" {
		t.Errorf("unexpected tax account name %q", iva.NombreCuenta)
	}
	if !iva.Debe.Equal(dec("116.60")) {
		t.Errorf("IVA debit = %s, want 116.60", iva.Debe)
	}

	payment := findLine(t, j, "102-01")
	if !payment.Haber.Equal(dec("845.32")) {
		t.Errorf("payment credit = %s, want 845.32", payment.Haber)
	}

	assertBalanced(t, j)
}

func TestGenerateJournal_InvoicedCreditsProveedores(t *testing.T) {
	e := fuelExpense()
	e.EstadoFactura = InvoiceFacturado
	e.EstadoConciliacion = BankPendienteBancaria

	j := GenerateJournal(&e)

	payable := findLine(t, j, "201-01")
	if payable.NombreCuenta != "Proveedores" {
		t.Errorf("unexpected counter account %q", payable.NombreCuenta)
	}
	if !payable.Haber.Equal(dec("845.32")) {
		t.Errorf("payable credit = %s, want 845.32", payable.Haber)
	}

	assertBalanced(t, j)
}

func TestGenerateJournal_ReconciledCreditsBank(t *testing.T) {
	e := fuelExpense()
	e.EstadoFactura = InvoiceFacturado
	e.EstadoConciliacion = BankConciliado
	e.Movimientos = []BankMovement{{ID: "mov-1", Importe: dec("845.32"), Moneda: "MXN"}}

	j := GenerateJournal(&e)

	bank := findLine(t, j, "102-01")
	if !bank.Haber.Equal(dec("845.32")) {
		t.Errorf("bank credit = %s, want 845.32", bank.Haber)
	}
	if bank.Tipo != LinePagoBanco {
		t.Errorf("bank line tipo = %s, want %s", bank.Tipo, LinePagoBanco)
	}
	if j.TipoPoliza != PolizaEgresos {
		t.Errorf("tipo poliza = %s, want %s", j.TipoPoliza, PolizaEgresos)
	}

	assertBalanced(t, j)
}

func TestGenerateJournal_RetencionSplitsCredits(t *testing.T) {
	// Honorarios with IVA traslado plus ISR and IVA retenciones.
	e := Expense{
		ID:           "01J5RET",
		Descripcion:  "Honorarios contador",
		Total:        dec("1000.00"),
		Fecha:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Categoria:    CategoryHonorarios,
		PagadoPor:    PayerCompanyAccount,
		WillHaveCFDI: true,
		TaxInfo: &TaxInfo{
			Subtotal: decPtr("1000.00"),
			Total:    dec("1000.00"),
			Taxes: []TaxLine{
				{Tipo: TaxIVA, Kind: TaxTraslado, Tasa: dec("0.16"), Importe: dec("160.00")},
				{Tipo: TaxISR, Kind: TaxRetencion, Tasa: dec("0.10"), Importe: dec("100.00")},
				{Tipo: TaxIVA, Kind: TaxRetencion, Tasa: dec("0.106667"), Importe: dec("106.67")},
			},
		},
		EstadoFactura:      InvoiceFacturado,
		EstadoConciliacion: BankPendienteBancaria,
	}

	j := GenerateJournal(&e)

	// Debits: 1000 subtotal + 160 IVA traslado.
	if !j.TotalDebe.Equal(dec("1160.00")) {
		t.Errorf("total debe = %s, want 1160.00", j.TotalDebe)
	}

	// Proveedores gets debits minus retenciones.
	payable := findLine(t, j, "201-01")
	if !payable.Haber.Equal(dec("953.33")) {
		t.Errorf("payable credit = %s, want 953.33", payable.Haber)
	}

	isr := findLine(t, j, "216-02")
	if !isr.Haber.Equal(dec("100.00")) {
		t.Errorf("ISR retention credit = %s, want 100.00", isr.Haber)
	}

	ivaRet := findLine(t, j, "216-01")
	if !ivaRet.Haber.Equal(dec("106.67")) {
		t.Errorf("IVA retention credit = %s, want 106.67", ivaRet.Haber)
	}

	assertBalanced(t, j)
}

func TestGenerateJournal_DerivedSubtotal(t *testing.T) {
	e := fuelExpense()
	e.TaxInfo.Subtotal = nil

	j := GenerateJournal(&e)

	// subtotal = 845.32 + 0 - 116.60
	expense := findLine(t, j, "601-01")
	if !expense.Debe.Equal(dec("728.72")) {
		t.Errorf("derived subtotal debit = %s, want 728.72", expense.Debe)
	}

	assertBalanced(t, j)
}

func TestGenerateJournal_NegativeDerivedSubtotalClamped(t *testing.T) {
	e := fuelExpense()
	e.TaxInfo.Subtotal = nil
	e.Total = dec("50.00") // smaller than the traslado amount

	j := GenerateJournal(&e)

	// The clamped subtotal drops the expense line; the traslado debit stays
	// and the credit side absorbs the residual.
	assertBalanced(t, j)
	if !j.TotalDebe.IsPositive() {
		t.Fatalf("expected debit side to survive clamping, got %s", j.TotalDebe)
	}
}

func TestGenerateJournal_EmptyDebitsForcesTotal(t *testing.T) {
	e := Expense{
		ID:          "01J5FORCE",
		Descripcion: "Gasto con impuestos corruptos",
		Total:       dec("312.50"),
		Fecha:       time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		Categoria:   CategoryOtros,
		PagadoPor:   PayerOwnAccount,
		TaxInfo: &TaxInfo{
			Subtotal: decPtr("0"),
			Total:    dec("312.50"),
			Taxes: []TaxLine{
				{Tipo: TaxIVA, Kind: TaxTraslado, Importe: dec("-10.00")},
			},
		},
	}

	j := GenerateJournal(&e)

	expense := findLine(t, j, "601-99")
	if !expense.Debe.Equal(dec("312.50")) {
		t.Errorf("forced debit = %s, want full total 312.50", expense.Debe)
	}

	reimburse := findLine(t, j, "205-01")
	if !reimburse.Haber.Equal(dec("312.50")) {
		t.Errorf("reimbursement credit = %s, want 312.50", reimburse.Haber)
	}

	assertBalanced(t, j)
}

func TestGenerateJournal_ZeroExpenseIsEmptyAndBalanced(t *testing.T) {
	e := Expense{
		ID:        "01J5ZERO",
		Total:     decimal.Zero,
		Fecha:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Categoria: CategoryOtros,
	}

	j := GenerateJournal(&e)

	if len(j.Movimientos) != 0 {
		t.Fatalf("expected empty journal, got %d lines", len(j.Movimientos))
	}
	if !j.TotalDebe.IsZero() || !j.TotalHaber.IsZero() {
		t.Fatalf("expected zero totals, got debe=%s haber=%s", j.TotalDebe, j.TotalHaber)
	}
	assertBalanced(t, j)
}

func TestGenerateJournal_FallbackAccounts(t *testing.T) {
	e := Expense{
		ID:          "01J5FALL",
		Descripcion: "Gasto raro",
		Total:       dec("116.00"),
		Fecha:       time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC),
		Categoria:   Category("drones"),
		PagadoPor:   Payer("petty_cash"),
		TaxInfo: &TaxInfo{
			Subtotal: decPtr("100.00"),
			Total:    dec("116.00"),
			Taxes: []TaxLine{
				{Tipo: TaxType("IMPUESTO_LOCAL"), Kind: TaxTraslado, Importe: dec("16.00")},
			},
		},
	}

	j := GenerateJournal(&e)

	// Unknown category -> otros, unknown tax -> OTRO traslado account,
	// unknown payer -> company account.
	findLine(t, j, "601-99")
	findLine(t, j, "118-99")
	findLine(t, j, "102-01")

	assertBalanced(t, j)
}

func TestGenerateJournal_ResidualAdjustsFirstCredit(t *testing.T) {
	// Malformed breakdown where retenciones exceed the posted debits: the
	// counter credit is skipped, leaving the sides apart until rebalance
	// shaves the first credit line.
	e := Expense{
		ID:          "01J5DRIFT",
		Descripcion: "Consumo con centavos",
		Total:       dec("10.00"),
		Fecha:       time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
		Categoria:   CategoryAlimentos,
		PagadoPor:   PayerCompanyAccount,
		TaxInfo: &TaxInfo{
			Subtotal: decPtr("10.00"),
			Total:    dec("10.00"),
			Taxes: []TaxLine{
				{Tipo: TaxISR, Kind: TaxRetencion, Importe: dec("15.00")},
			},
		},
	}

	j := GenerateJournal(&e)
	assertBalanced(t, j)
	if !j.TotalDebe.Equal(j.TotalHaber) {
		t.Errorf("after rebalance totals must be equal, got debe=%s haber=%s", j.TotalDebe, j.TotalHaber)
	}

	// The retention line absorbed the residual.
	ret := findLine(t, j, "216-02")
	if !ret.Haber.Equal(dec("10.00")) {
		t.Errorf("adjusted retention credit = %s, want 10.00", ret.Haber)
	}
}

func TestGenerateJournal_Deterministic(t *testing.T) {
	e := fuelExpense()

	first := GenerateJournal(&e)
	second := GenerateJournal(&e)

	if first.NumeroPoliza != second.NumeroPoliza {
		t.Errorf("policy numbers differ: %s vs %s", first.NumeroPoliza, second.NumeroPoliza)
	}
	if len(first.Movimientos) != len(second.Movimientos) {
		t.Fatalf("line counts differ: %d vs %d", len(first.Movimientos), len(second.Movimientos))
	}
	for i := range first.Movimientos {
		a, b := first.Movimientos[i], second.Movimientos[i]
		if a.Cuenta != b.Cuenta || !a.Debe.Equal(b.Debe) || !a.Haber.Equal(b.Haber) {
			t.Errorf("line %d differs: %+v vs %+v", i, a, b)
		}
	}
}

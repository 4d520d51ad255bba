package domain

import "testing"

func TestCalculateCompleteness_PendingInvoiceWithoutRFC(t *testing.T) {
	c := CalculateCompleteness(true, InvoicePendiente, BankPendienteFactura, false)

	if c.Porcentaje >= 100 {
		t.Fatalf("expected sub-100%% score, got %d", c.Porcentaje)
	}
	if c.Criterios[CriterionFacturaRecibida] {
		t.Error("factura_recibida should be unmet")
	}
	if c.Criterios[CriterionRFCProveedor] {
		t.Error("rfc_proveedor should be unmet")
	}
	if c.PuntosTotales != 11 {
		t.Errorf("total points = %d, want 11", c.PuntosTotales)
	}
	if c.Puntos != 4 {
		t.Errorf("points = %d, want 4", c.Puntos)
	}
	if c.Estado != CompletenessIncompleto {
		t.Errorf("estado = %s, want incompleto", c.Estado)
	}
	if c.Faltantes != 3 {
		t.Errorf("faltantes = %d, want 3", c.Faltantes)
	}
}

func TestCalculateCompleteness_NoCFDIIsComplete(t *testing.T) {
	c := CalculateCompleteness(false, InvoiceSinFactura, BankSinFactura, false)

	if c.Porcentaje != 100 {
		t.Fatalf("expected 100%%, got %d", c.Porcentaje)
	}
	if c.Estado != CompletenessCompleto {
		t.Errorf("estado = %s, want completo", c.Estado)
	}
	if c.PuntosTotales != 7 {
		t.Errorf("total points = %d, want 7", c.PuntosTotales)
	}
}

func TestCalculateCompleteness_FullyEvidenced(t *testing.T) {
	c := CalculateCompleteness(true, InvoiceFacturado, BankConciliado, true)

	if c.Porcentaje != 100 {
		t.Fatalf("expected 100%%, got %d", c.Porcentaje)
	}
	if c.Estado != CompletenessCompleto {
		t.Errorf("estado = %s, want completo", c.Estado)
	}
	if c.Faltantes != 0 {
		t.Errorf("faltantes = %d, want 0", c.Faltantes)
	}
}

func TestCalculateCompleteness_ParcialBucket(t *testing.T) {
	// Invoiced with RFC but not reconciled: 8/11 = 73% -> parcial.
	c := CalculateCompleteness(true, InvoiceFacturado, BankPendienteBancaria, true)

	if c.Porcentaje != 73 {
		t.Fatalf("expected 73%%, got %d", c.Porcentaje)
	}
	if c.Estado != CompletenessParcial {
		t.Errorf("estado = %s, want parcial", c.Estado)
	}
}

// Adding a required piece of evidence never decreases the percentage.
func TestCalculateCompleteness_Monotonic(t *testing.T) {
	steps := []struct {
		name    string
		invoice InvoiceStatus
		bank    BankStatus
		hasRFC  bool
	}{
		{"captured", InvoicePendiente, BankPendienteFactura, false},
		{"rfc known", InvoicePendiente, BankPendienteFactura, true},
		{"invoiced", InvoiceFacturado, BankPendienteBancaria, true},
		{"reconciled", InvoiceFacturado, BankConciliado, true},
	}

	prev := -1
	for _, step := range steps {
		c := CalculateCompleteness(true, step.invoice, step.bank, step.hasRFC)
		if c.Porcentaje < prev {
			t.Fatalf("step %q decreased completeness: %d -> %d", step.name, prev, c.Porcentaje)
		}
		prev = c.Porcentaje
	}
}

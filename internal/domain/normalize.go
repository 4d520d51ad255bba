package domain

// NormalizeExpense recomputes every derived field of an expense: canonical
// statuses, workflow stage, display metadata, completeness and the journal.
// It operates on a copy of the input and is idempotent — the derived fields
// are pure functions of the captured fields, so running it on its own output
// changes nothing.
func NormalizeExpense(e Expense) Expense {
	e.EstadoFactura = NormalizeInvoiceStatus(e.EstadoFacturaRaw, e.WillHaveCFDI)
	e.EstadoConciliacion = NormalizeBankStatus(e.EstadoConciliacionRaw, e.EstadoFactura, e.HasMovement())
	e.Workflow = DeriveWorkflow(e.EstadoFactura, e.EstadoConciliacion)
	e.InvoiceMeta = InvoiceStatusMeta(e.EstadoFactura)
	e.BankMeta = BankStatusMeta(e.EstadoConciliacion)
	e.Completitud = CalculateCompleteness(e.WillHaveCFDI, e.EstadoFactura, e.EstadoConciliacion, e.HasRFC())
	e.Asientos = GenerateJournal(&e)
	return e
}

package domain

// Account is one entry of the chart of accounts.
type Account struct {
	Codigo string `json:"cuenta"`
	Nombre string `json:"nombre_cuenta"`
}

// categoryAccounts resolves the expense (debit) account for each category.
// Adding a category is a data change here, not a code change. The "otros"
// entry doubles as the fallback for unknown categories.
var categoryAccounts = map[Category]Account{
	CategoryCombustible:   {Codigo: "601-01", Nombre: "Combustibles y lubricantes"},
	CategoryAlimentos:     {Codigo: "601-02", Nombre: "Alimentos y viáticos"},
	CategoryHospedaje:     {Codigo: "601-03", Nombre: "Hospedaje"},
	CategoryTransporte:    {Codigo: "601-04", Nombre: "Transporte y peajes"},
	CategoryPapeleria:     {Codigo: "601-05", Nombre: "Papelería y artículos de oficina"},
	CategoryMantenimiento: {Codigo: "601-06", Nombre: "Mantenimiento y reparaciones"},
	CategoryPublicidad:    {Codigo: "601-07", Nombre: "Publicidad y promoción"},
	CategoryHonorarios:    {Codigo: "601-08", Nombre: "Honorarios profesionales"},
	CategoryRenta:         {Codigo: "601-09", Nombre: "Renta de inmuebles"},
	CategoryOtros:         {Codigo: "601-99", Nombre: "Otros gastos generales"},
}

// ExpenseAccount resolves the debit account for a category.
func ExpenseAccount(c Category) Account {
	if acc, ok := categoryAccounts[c]; ok {
		return acc
	}
	return categoryAccounts[CategoryOtros]
}

type taxAccountKey struct {
	Tipo TaxType
	Kind TaxKind
}

// taxAccounts resolves the account for each tax type and kind. Traslados
// post as debits (acreditable), retenciones as credits (por pagar). The
// OTRO rows are the fallback for unknown tax types.
var taxAccounts = map[taxAccountKey]Account{
	{TaxIVA, TaxTraslado}:   {Codigo: "118-01", Nombre: "IVA acreditable pendiente"},
	{TaxIVA, TaxRetencion}:  {Codigo: "216-01", Nombre: "IVA retenido por pagar"},
	{TaxISR, TaxTraslado}:   {Codigo: "118-02", Nombre: "ISR acreditable"},
	{TaxISR, TaxRetencion}:  {Codigo: "216-02", Nombre: "ISR retenido por pagar"},
	{TaxIEPS, TaxTraslado}:  {Codigo: "118-03", Nombre: "IEPS acreditable"},
	{TaxIEPS, TaxRetencion}: {Codigo: "216-03", Nombre: "IEPS retenido por pagar"},
	{TaxOtro, TaxTraslado}:  {Codigo: "118-99", Nombre: "Impuestos acreditables (otros)"},
	{TaxOtro, TaxRetencion}: {Codigo: "216-99", Nombre: "Otros impuestos retenidos por pagar"},
}

// TaxAccount resolves the account for one tax line.
func TaxAccount(tipo TaxType, kind TaxKind) Account {
	if acc, ok := taxAccounts[taxAccountKey{tipo, kind}]; ok {
		return acc
	}
	return taxAccounts[taxAccountKey{TaxOtro, kind}]
}

// payerAccounts resolves the credit account for a not-yet-invoiced expense.
var payerAccounts = map[Payer]Account{
	PayerCompanyAccount: {Codigo: "102-01", Nombre: "Bancos — cuenta empresa"},
	PayerOwnAccount:     {Codigo: "205-01", Nombre: "Gastos por reembolsar a empleados"},
	PayerCorporateCard:  {Codigo: "210-01", Nombre: "Tarjeta corporativa por pagar"},
}

// PayerAccount resolves the payment account for a payer. Unknown payers fall
// back to the company account.
func PayerAccount(p Payer) Account {
	if acc, ok := payerAccounts[p]; ok {
		return acc
	}
	return payerAccounts[PayerCompanyAccount]
}

var (
	// ProveedoresAccount is the accounts-payable credit account used while
	// an invoiced expense awaits bank reconciliation.
	ProveedoresAccount = Account{Codigo: "201-01", Nombre: "Proveedores"}

	// BancosAccount is the cash/bank account credited once payment cleared.
	BancosAccount = Account{Codigo: "102-01", Nombre: "Bancos — cuenta empresa"}
)

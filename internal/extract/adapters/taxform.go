package adapters

// TaxFormAdapter builds prompts for Modelo 600 self-assessment forms.
type TaxFormAdapter struct{}

// NewTaxFormAdapter creates a new tax form adapter
func NewTaxFormAdapter() *TaxFormAdapter {
	return &TaxFormAdapter{}
}

// Name returns the adapter name
func (a *TaxFormAdapter) Name() string {
	return "modelo600"
}

// CanHandle matches an explicit form kind, or form vocabulary in the text
func (a *TaxFormAdapter) CanHandle(kind string, text string) bool {
	if kind != "" {
		return kind == "modelo600" || kind == "form" || kind == "autoliquidacion"
	}
	return containsAny(text, "MODELO 600", "AUTOLIQUIDACION", "AUTOLIQUIDACIÓN", "SUJETO PASIVO", "TRANSMISIONES PATRIMONIALES")
}

// SystemPrompt returns the system message establishing the task
func (a *TaxFormAdapter) SystemPrompt() string {
	return "You extract structured data from fragments of Spanish Modelo 600 tax self-assessment forms " +
		"(Impuesto sobre Transmisiones Patrimoniales). The fragment may be incomplete; extract only what is " +
		"actually present. Respond with JSON only."
}

// Instruction returns the extraction instruction prepended to the text
func (a *TaxFormAdapter) Instruction() string {
	return "Extract the declaration data from this form fragment. " +
		"The sujeto pasivo is the buyer, the transmitente is the seller. " +
		"A form usually covers one property; include the liquidation block (base imponible, tipo, cuota) when present.\n\n" + recordSchema
}

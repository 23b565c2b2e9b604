package adapters

// DeedAdapter builds prompts for notarial deeds (escrituras de compraventa).
type DeedAdapter struct{}

// NewDeedAdapter creates a new deed adapter
func NewDeedAdapter() *DeedAdapter {
	return &DeedAdapter{}
}

// Name returns the adapter name
func (a *DeedAdapter) Name() string {
	return "deed"
}

// CanHandle matches an explicit deed kind, or deed vocabulary in the text
func (a *DeedAdapter) CanHandle(kind string, text string) bool {
	if kind != "" {
		return kind == "deed" || kind == "escritura"
	}
	return containsAny(text, "ESCRITURA", "COMPRAVENTA", "OTORGAMIENTO", "PROTOCOLO")
}

// SystemPrompt returns the system message establishing the task
func (a *DeedAdapter) SystemPrompt() string {
	return "You extract structured data from fragments of Spanish notarial deeds (escrituras de compraventa). " +
		"The fragment may be incomplete; extract only what is actually present. Respond with JSON only."
}

// Instruction returns the extraction instruction prepended to the text
func (a *DeedAdapter) Instruction() string {
	return "Extract the transaction data from this deed fragment. " +
		"Sellers are the transmitentes, buyers are the adquirentes or compradores. " +
		"A deed may transfer several properties; list each with its referencia catastral.\n\n" + recordSchema
}

package adapters

// GenericAdapter is the fallback for documents of unknown kind.
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true; the registry uses this adapter last
func (a *GenericAdapter) CanHandle(kind string, text string) bool {
	return true
}

// SystemPrompt returns the system message establishing the task
func (a *GenericAdapter) SystemPrompt() string {
	return "You extract structured data from fragments of Spanish real estate transaction documents. " +
		"The fragment may be incomplete; extract only what is actually present. Respond with JSON only."
}

// Instruction returns the extraction instruction prepended to the text
func (a *GenericAdapter) Instruction() string {
	return "Extract any transaction data from this document fragment.\n\n" + recordSchema
}

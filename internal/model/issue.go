package model

import "sync"

// Severity ranks how serious an issue is.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// rank orders severities so a report's status can only escalate.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Exceeds reports whether s is strictly more severe than other.
func (s Severity) Exceeds(other Severity) bool {
	return s.rank() > other.rank()
}

// IssueCode names a discrepancy class. The taxonomy is open: comparison rules
// may register new codes without changes to the matcher or the report types.
type IssueCode string

const (
	CodeMissingTaxForm     IssueCode = "MISSING_TAX_FORM"
	CodeOrphanTaxForm      IssueCode = "ORPHAN_TAX_FORM"
	CodeCadastralMismatch  IssueCode = "CATASTRAL_MISMATCH"
	CodeAddressMismatch    IssueCode = "ADDRESS_MISMATCH"
	CodeAddressFormatDiff  IssueCode = "ADDRESS_FORMAT_DIFFERENCE"
	CodeTypeMismatch       IssueCode = "TYPE_MISMATCH"
	CodeTypeCodeMismatch   IssueCode = "TYPE_CODE_MISMATCH"
	CodeDateMismatch       IssueCode = "DATE_MISMATCH"
	CodeNotaryMismatch     IssueCode = "NOTARY_MISMATCH"
	CodeValueMismatch      IssueCode = "VALUE_MISMATCH"
	CodeSurfaceMismatch    IssueCode = "SURFACE_MISMATCH"
	CodeMissingSeller      IssueCode = "MISSING_SELLER"
	CodeMissingBuyer       IssueCode = "MISSING_BUYER"
	CodeOwnershipMismatch  IssueCode = "OWNERSHIP_SHARE_MISMATCH"
	CodeSellerPctMismatch  IssueCode = "SELLER_PERCENT_MISMATCH"
	CodeDocNumberMismatch  IssueCode = "DOCUMENT_NUMBER_MISMATCH"
	CodeTransmitterSum     IssueCode = "TRANSMITTER_SUM_ERROR"
	CodeTaxCalculation     IssueCode = "TAX_CALCULATION_ERROR"
)

// IssueDef describes a registered issue code.
type IssueDef struct {
	Code        IssueCode `json:"code"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
}

var (
	registryMu    sync.RWMutex
	issueRegistry = map[IssueCode]IssueDef{}
)

// RegisterIssueCode adds a code to the registry. Re-registering a code
// replaces its definition.
func RegisterIssueCode(code IssueCode, severity Severity, description string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	issueRegistry[code] = IssueDef{Code: code, Severity: severity, Description: description}
}

// LookupIssueCode returns the registered definition for a code.
func LookupIssueCode(code IssueCode) (IssueDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := issueRegistry[code]
	return def, ok
}

func init() {
	RegisterIssueCode(CodeMissingTaxForm, SeverityError, "no tax form references this deed property")
	RegisterIssueCode(CodeOrphanTaxForm, SeverityWarning, "tax form references a property absent from the deed")
	RegisterIssueCode(CodeCadastralMismatch, SeverityError, "cadastral references differ within a match group")
	RegisterIssueCode(CodeAddressMismatch, SeverityWarning, "property addresses differ beyond formatting noise")
	RegisterIssueCode(CodeAddressFormatDiff, SeverityWarning, "property addresses differ only in formatting")
	RegisterIssueCode(CodeTypeMismatch, SeverityWarning, "property type descriptors differ")
	RegisterIssueCode(CodeTypeCodeMismatch, SeverityError, "categorical property type codes differ")
	RegisterIssueCode(CodeDateMismatch, SeverityError, "sale date does not match accrual date")
	RegisterIssueCode(CodeNotaryMismatch, SeverityWarning, "notary names differ")
	RegisterIssueCode(CodeValueMismatch, SeverityError, "declared values differ beyond tolerance")
	RegisterIssueCode(CodeSurfaceMismatch, SeverityWarning, "surface areas differ beyond tolerance")
	RegisterIssueCode(CodeMissingSeller, SeverityError, "deed sellers absent from tax-form transmitters")
	RegisterIssueCode(CodeMissingBuyer, SeverityError, "tax-form taxpayer absent from deed buyers")
	RegisterIssueCode(CodeOwnershipMismatch, SeverityError, "co-owner share percentages differ beyond tolerance")
	RegisterIssueCode(CodeSellerPctMismatch, SeverityError, "per-seller sale percentages differ beyond tolerance")
	RegisterIssueCode(CodeDocNumberMismatch, SeverityWarning, "document or protocol numbers differ")
	RegisterIssueCode(CodeTransmitterSum, SeverityError, "transmitter coefficients do not sum to 100%")
	RegisterIssueCode(CodeTaxCalculation, SeverityError, "liquidation quota does not match base and rate")
}

// Issue is one immutable discrepancy fact. DeedValue and FormValue carry the
// raw pre-normalization values so reviewers see what the documents actually
// said.
type Issue struct {
	Code      IssueCode `json:"code"`
	Severity  Severity  `json:"severity"`
	Field     string    `json:"field"`
	DeedValue string    `json:"deed_value,omitempty"`
	FormValue string    `json:"form_value,omitempty"`
	Message   string    `json:"message"`
	FormID    string    `json:"form_id,omitempty"`
}

// ComparisonReport collects the issues for one matched property group.
// Status is the maximum severity seen so far and never decreases.
type ComparisonReport struct {
	PropertyID   string   `json:"property_id"`
	CadastralRef string   `json:"cadastral_ref"`
	Status       Severity `json:"status"`
	MatchedForms []string `json:"matched_forms"`
	Issues       []Issue  `json:"issues"`
}

// NewComparisonReport creates an empty report with status ok.
func NewComparisonReport(propertyID, cadastralRef string) *ComparisonReport {
	return &ComparisonReport{
		PropertyID:   propertyID,
		CadastralRef: cadastralRef,
		Status:       SeverityOK,
		MatchedForms: []string{},
		Issues:       []Issue{},
	}
}

// AddIssue appends an issue and escalates the report status if needed.
func (r *ComparisonReport) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity.Exceeds(r.Status) {
		r.Status = issue.Severity
	}
}

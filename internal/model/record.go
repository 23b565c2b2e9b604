package model

import (
	"bytes"
	"encoding/json"
)

// Amount is a raw monetary, percentage or surface value as it appeared in the
// source document. It may be in Spanish format ("150.000,50"), plain format
// ("150000.50"), or a bare JSON number; parsing is deferred to the comparison
// layer so the original rendering is preserved for reports.
type Amount string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// String returns the raw value, or "" for a nil Amount.
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	return string(*a)
}

// PersonRole distinguishes the two sides of a transfer.
type PersonRole string

const (
	RoleSeller PersonRole = "seller" // transmitente
	RoleBuyer  PersonRole = "buyer"  // sujeto pasivo
)

// PersonClaim is one party as extracted from a document. TaxID is the matching
// identity when present; otherwise the normalized name is used.
type PersonClaim struct {
	Role          PersonRole `json:"role,omitempty"`
	Name          string     `json:"name,omitempty"`
	TaxID         string     `json:"tax_id,omitempty" validate:"omitempty,taxid"`
	MaritalStatus *string    `json:"marital_status,omitempty"`
	SpouseTaxID   *string    `json:"spouse_tax_id,omitempty"`

	// SharePercent is the transmission coefficient on tax-form records.
	SharePercent *Amount `json:"share_percent,omitempty"`
}

// PropertyClaim is one parcel as extracted from a document. All optional
// fields use pointers: nil means the source did not state the value, which
// several comparison rules treat differently from an explicit zero.
type PropertyClaim struct {
	ID           string `json:"id,omitempty"`
	CadastralRef string `json:"cadastral_ref,omitempty" validate:"omitempty,cadastral"`
	Address      string `json:"address,omitempty"`

	// Type is the free-text descriptor (urbana, rústica...); TypeCode is the
	// categorical form variant that drives legal classification.
	Type     string `json:"type,omitempty"`
	TypeCode string `json:"type_code,omitempty"`

	DeclaredValue      *Amount `json:"declared_value,omitempty"`
	SurfaceConstructed *Amount `json:"surface_constructed,omitempty"`
	SurfaceUsable      *Amount `json:"surface_usable,omitempty"`
	Surface            *Amount `json:"surface,omitempty"`
	PercentTransferred *Amount `json:"percent_transferred,omitempty"`

	// OwnershipShares maps co-owner tax IDs to their percentage.
	OwnershipShares map[string]Amount `json:"ownership_shares,omitempty"`
}

// NotaryInfo identifies the authorizing notary.
type NotaryInfo struct {
	Name     string  `json:"name,omitempty"`
	TaxID    string  `json:"tax_id,omitempty" validate:"omitempty,taxid"`
	Protocol *string `json:"protocol,omitempty"`
}

// LiquidationData carries the self-assessment arithmetic of a Modelo 600.
type LiquidationData struct {
	DeclaredValue *Amount `json:"declared_value,omitempty"`
	TaxableBase   *Amount `json:"taxable_base,omitempty"`
	Rate          *Amount `json:"rate,omitempty"`
	Quota         *Amount `json:"quota,omitempty"`
}

// SaleBreakdownEntry is one per-seller-per-property slice of the transaction.
type SaleBreakdownEntry struct {
	PropertyRef string  `json:"property_ref,omitempty"`
	SellerTaxID string  `json:"seller_tax_id,omitempty"`
	BuyerTaxID  string  `json:"buyer_tax_id,omitempty"`
	Percentage  *Amount `json:"percentage,omitempty"`
	Amount      *Amount `json:"amount,omitempty"`
}

// SourceRecord is one parsed document: a notarial deed (escritura) or a
// self-assessment tax form (Modelo 600). A deed usually lists several
// properties; a tax form usually lists exactly one.
type SourceRecord struct {
	DocumentID     string        `json:"document_id,omitempty"`
	DocumentNumber *string       `json:"document_number,omitempty"`
	SaleDate       *string       `json:"sale_date,omitempty"`
	Notary         *NotaryInfo   `json:"notary,omitempty"`
	Sellers        []PersonClaim `json:"sellers,omitempty" validate:"dive"`
	Buyers         []PersonClaim `json:"buyers,omitempty" validate:"dive"`

	Properties []PropertyClaim `json:"properties,omitempty" validate:"dive"`

	SaleBreakdown []SaleBreakdownEntry `json:"sale_breakdown,omitempty"`
	Liquidation   *LiquidationData     `json:"liquidation,omitempty"`
}

// ChunkExtraction is a partial SourceRecord produced by extracting one
// document region in isolation. Any field may be absent.
type ChunkExtraction = SourceRecord

// MergedRecord is the consensus of N ChunkExtractions of one document.
type MergedRecord = SourceRecord

// PageText is one page of already-extracted document text, the unit the
// chunker splits before structured extraction.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

package merge

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocitatem/concordia/internal/model"
)

func testEngine() *Engine {
	return NewEngine(model.DefaultConfig().Merge, nil, zerolog.Nop())
}

func amount(s string) *model.Amount {
	a := model.Amount(s)
	return &a
}

func strptr(s string) *string { return &s }

func TestMerge_EmptyInput(t *testing.T) {
	e := testEngine()

	_, err := e.Merge(nil)
	require.Error(t, err)

	var cerr *model.ContractError
	require.ErrorAs(t, err, &cerr)
}

func TestMerge_SingletonIdempotent(t *testing.T) {
	e := testEngine()

	chunk := model.ChunkExtraction{
		DocumentID: "doc-1",
		SaleDate:   strptr("15-03-2024"),
		Sellers:    []model.PersonClaim{{Name: "Juan García", TaxID: "12345678Z"}},
		Properties: []model.PropertyClaim{{
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("150.000,00"),
		}},
	}

	merged, err := e.Merge([]model.ChunkExtraction{chunk})
	require.NoError(t, err)

	assert.Equal(t, "doc-1", merged.DocumentID)
	assert.Equal(t, "15-03-2024", *merged.SaleDate)
	require.Len(t, merged.Sellers, 1)
	assert.Equal(t, "Juan García", merged.Sellers[0].Name)
	require.Len(t, merged.Properties, 1)
	assert.Equal(t, "150.000,00", merged.Properties[0].DeclaredValue.String())
}

func TestMerge_NCopiesIdempotent(t *testing.T) {
	e := testEngine()

	chunk := model.ChunkExtraction{
		SaleDate: strptr("15-03-2024"),
		Sellers:  []model.PersonClaim{{Name: "Juan García", TaxID: "12345678Z"}},
		Buyers:   []model.PersonClaim{{Name: "Ana Pérez", TaxID: "87654321X"}},
		Properties: []model.PropertyClaim{{
			CadastralRef: "9872023VH5797S0001WX",
			Address:      "Calle Mayor 12",
		}},
	}

	single, err := e.Merge([]model.ChunkExtraction{chunk})
	require.NoError(t, err)

	triple, err := e.Merge([]model.ChunkExtraction{chunk, chunk, chunk})
	require.NoError(t, err)

	assert.Equal(t, single, triple, "merging N copies must equal merging one")
}

func TestMerge_PluralityVote(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{SaleDate: strptr("15-03-2024")},
		{SaleDate: strptr("15-03-2024")},
		{SaleDate: strptr("16-03-2024")}, // OCR glitch in one chunk
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)
	assert.Equal(t, "15-03-2024", *merged.SaleDate)
}

func TestMerge_TieBreaksTowardLastObserved(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{DocumentNumber: strptr("100")},
		{DocumentNumber: strptr("200")},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)
	assert.Equal(t, "200", *merged.DocumentNumber)
}

func TestMerge_PersonDedupByTaxID(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{Sellers: []model.PersonClaim{{Name: "JUAN GARCIA LOPEZ", TaxID: "12345678Z"}}},
		{Sellers: []model.PersonClaim{{
			Name:          "Juan García López",
			TaxID:         "12345678-z",
			MaritalStatus: strptr("casado"),
		}}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)

	require.Len(t, merged.Sellers, 1, "same tax ID must collapse to one person")
	assert.Equal(t, "Juan García López", merged.Sellers[0].Name, "mixed-case rendering wins")
	require.NotNil(t, merged.Sellers[0].MaritalStatus)
	assert.Equal(t, "casado", *merged.Sellers[0].MaritalStatus)
	assert.Equal(t, model.RoleSeller, merged.Sellers[0].Role)
}

func TestMerge_PersonDedupByNameWithoutTaxID(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{Buyers: []model.PersonClaim{{Name: "DON JUAN GARCÍA"}}},
		{Buyers: []model.PersonClaim{{Name: "Juan García"}}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)

	require.Len(t, merged.Buyers, 1, "honorific and casing differences must not split the person")
	assert.Equal(t, "Juan García", merged.Buyers[0].Name)
}

func TestMerge_PropertyDedupByCadastralRef(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{Properties: []model.PropertyClaim{{
			CadastralRef: "9872023VH5797S0001WX",
			Address:      "Calle Mayor 12",
		}}},
		{Properties: []model.PropertyClaim{{
			CadastralRef:  "9872023 VH5797S 0001 WX",
			DeclaredValue: amount("150.000,00"),
		}}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)

	require.Len(t, merged.Properties, 1)
	assert.Equal(t, "Calle Mayor 12", merged.Properties[0].Address)
	assert.Equal(t, "150.000,00", merged.Properties[0].DeclaredValue.String())
}

func TestMerge_PropertyMagnitudesTakeLarger(t *testing.T) {
	e := testEngine()

	// A chunk boundary truncated the value in the second observation
	chunks := []model.ChunkExtraction{
		{Properties: []model.PropertyClaim{{
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("150.000,00"),
		}}},
		{Properties: []model.PropertyClaim{{
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("150"),
		}}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)
	require.Len(t, merged.Properties, 1)
	assert.Equal(t, "150.000,00", merged.Properties[0].DeclaredValue.String())
}

func TestMerge_NoiseEntriesDiscarded(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{Properties: []model.PropertyClaim{
			{CadastralRef: "9872023VH5797S0001WX", Address: "Calle Mayor 12"},
			{Type: "urbana"}, // no key, single field: extraction noise
		}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)
	require.Len(t, merged.Properties, 1)
	assert.Equal(t, "9872023VH5797S0001WX", merged.Properties[0].CadastralRef)
}

func TestMerge_KeylessSubstantialEntryKept(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{Properties: []model.PropertyClaim{{
			Type:          "urbana",
			DeclaredValue: amount("90.000,00"),
		}}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)
	require.Len(t, merged.Properties, 1, "keyless entry with enough substance survives")
}

func TestMerge_NotaryAndLiquidation(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{Notary: &model.NotaryInfo{Name: "Luis Gómez"}},
		{
			Notary:      &model.NotaryInfo{Name: "Luis Gómez", Protocol: strptr("1234")},
			Liquidation: &model.LiquidationData{TaxableBase: amount("100.000,00"), Rate: amount("8")},
		},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)

	require.NotNil(t, merged.Notary)
	assert.Equal(t, "Luis Gómez", merged.Notary.Name)
	require.NotNil(t, merged.Notary.Protocol)
	assert.Equal(t, "1234", *merged.Notary.Protocol)

	require.NotNil(t, merged.Liquidation)
	assert.Equal(t, "100.000,00", merged.Liquidation.TaxableBase.String())
}

func TestMerge_BreakdownDedup(t *testing.T) {
	e := testEngine()

	chunks := []model.ChunkExtraction{
		{SaleBreakdown: []model.SaleBreakdownEntry{
			{PropertyRef: "REF", SellerTaxID: "11111111H", Percentage: amount("60")},
		}},
		{SaleBreakdown: []model.SaleBreakdownEntry{
			{PropertyRef: "REF", SellerTaxID: "11111111H", Amount: amount("90.000,00")},
			{PropertyRef: "REF", SellerTaxID: "22222222J", Percentage: amount("40")},
		}},
	}

	merged, err := e.Merge(chunks)
	require.NoError(t, err)

	require.Len(t, merged.SaleBreakdown, 2)
	assert.Equal(t, "60", merged.SaleBreakdown[0].Percentage.String())
	assert.Equal(t, "90.000,00", merged.SaleBreakdown[0].Amount.String())
	assert.Equal(t, "22222222J", merged.SaleBreakdown[1].SellerTaxID)
}

package reconcile

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocitatem/concordia/internal/model"
)

func testEngine() *Engine {
	return NewEngine(model.DefaultConfig(), zerolog.Nop())
}

func amount(s string) *model.Amount {
	a := model.Amount(s)
	return &a
}

func TestRun_NilDeed(t *testing.T) {
	e := testEngine()

	_, err := e.Run(nil, nil)
	require.Error(t, err)

	var cerr *model.ContractError
	require.ErrorAs(t, err, &cerr)
}

func TestRun_CleanMatch(t *testing.T) {
	e := testEngine()

	deed := &model.SourceRecord{
		DocumentID: "deed-1",
		Properties: []model.PropertyClaim{{
			ID:            "p1",
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("150.000,50"),
		}},
	}
	forms := []*model.SourceRecord{{
		DocumentID: "f1",
		Properties: []model.PropertyClaim{{
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("150000.50"),
		}},
	}}

	reports, err := e.Run(deed, forms)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, model.SeverityOK, reports[0].Status)
	assert.Empty(t, reports[0].Issues)
	assert.Equal(t, []string{"f1"}, reports[0].MatchedForms)
}

func TestRun_MissingTaxForm(t *testing.T) {
	e := testEngine()

	deed := &model.SourceRecord{
		DocumentID: "deed-1",
		Properties: []model.PropertyClaim{{ID: "p1", CadastralRef: "9872023VH5797S0001WX"}},
	}

	reports, err := e.Run(deed, nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, model.CodeMissingTaxForm, reports[0].Issues[0].Code)
	assert.Equal(t, model.SeverityError, reports[0].Status)
}

func TestRun_OrphanFormSingleWarning(t *testing.T) {
	e := testEngine()

	deed := &model.SourceRecord{
		DocumentID: "deed-1",
		Properties: []model.PropertyClaim{{ID: "p1", CadastralRef: "9872023VH5797S0001WX"}},
	}
	forms := []*model.SourceRecord{
		{
			DocumentID: "f1",
			Properties: []model.PropertyClaim{{CadastralRef: "9872023VH5797S0001WX"}},
		},
		{
			DocumentID: "f2",
			Properties: []model.PropertyClaim{{CadastralRef: "1111111AA1111A0001AA"}},
		},
	}

	reports, err := e.Run(deed, forms)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	var orphan *model.ComparisonReport
	for i := range reports {
		if reports[i].PropertyID == "orphan:f2" {
			orphan = &reports[i]
		}
	}
	require.NotNil(t, orphan, "orphan form must produce its own report")
	require.Len(t, orphan.Issues, 1, "exactly one issue per orphan form")
	assert.Equal(t, model.CodeOrphanTaxForm, orphan.Issues[0].Code)
	assert.Equal(t, model.SeverityWarning, orphan.Status)
}

func TestRun_SynthesizedIdentifiersAreStable(t *testing.T) {
	e := testEngine()

	build := func() (*model.SourceRecord, []*model.SourceRecord) {
		deed := &model.SourceRecord{
			Properties: []model.PropertyClaim{{CadastralRef: "9872023VH5797S0001WX"}},
		}
		forms := []*model.SourceRecord{{
			Properties: []model.PropertyClaim{{CadastralRef: "9872023VH5797S0001WX"}},
		}}
		return deed, forms
	}

	deed1, forms1 := build()
	first, err := e.Run(deed1, forms1)
	require.NoError(t, err)

	deed2, forms2 := build()
	second, err := e.Run(deed2, forms2)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield identical reports")
	assert.Equal(t, "deed:0", first[0].PropertyID)
	assert.Equal(t, []string{"form_0"}, first[0].MatchedForms)
}

func TestRun_EscalationStopsAtError(t *testing.T) {
	e := testEngine()

	deed := &model.SourceRecord{
		DocumentID: "deed-1",
		Notary:     &model.NotaryInfo{Name: "Luis Gómez"},
		Properties: []model.PropertyClaim{{
			ID:            "p1",
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("150000"),
		}},
	}
	forms := []*model.SourceRecord{{
		DocumentID: "f1",
		Notary:     &model.NotaryInfo{Name: "Carmen Díaz"}, // warning
		Properties: []model.PropertyClaim{{
			CadastralRef:  "9872023VH5797S0001WX",
			DeclaredValue: amount("100000"), // error
		}},
	}}

	reports, err := e.Run(deed, forms)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, model.SeverityError, reports[0].Status)
	assert.Len(t, reports[0].Issues, 2)
}

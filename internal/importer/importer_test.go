package importer

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/editor"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

func seededForm() *editor.Form {
	f := editor.NewForm()
	f.Title = "Geladeira Electrolux"
	f.Pros.Append(editor.Value{Value: "espaçosa"})
	f.Cons.Append(editor.Value{Value: "barulhenta"})
	f.TechnicalSpecs.Append(editor.Spec{Key: "Cor", Value: "Inox"})
	return f
}

func snapshot(t *testing.T, f *editor.Form) string {
	t.Helper()
	data, err := json.Marshal(f)
	require.NoError(t, err)
	return string(data)
}

func importError(t *testing.T, err error) *Error {
	t.Helper()
	require.Error(t, err)
	var ie *Error
	require.ErrorAs(t, err, &ie)
	return ie
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("videos")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestApply_InvalidJSONLeavesFormUntouched(t *testing.T) {
	f := seededForm()
	before := snapshot(t, f)

	_, err := Apply(f, KindSpecs, []byte(`{"Cor": "Branca",`))
	ie := importError(t, err)

	assert.Contains(t, ie.Message, "invalid JSON")
	assert.Equal(t, "IMPORT_ERROR", ie.ErrorCode())
	assert.Equal(t, before, snapshot(t, f))
}

func TestApply_ProsCons(t *testing.T) {
	f := seededForm()

	res, err := Apply(f, KindProsCons, []byte(`{"pros":["silenciosa","econômica"]}`))
	require.NoError(t, err)

	assert.Equal(t, "2 pros and 0 cons added", res.Message)
	assert.Equal(t, []editor.Value{{Value: "silenciosa"}, {Value: "econômica"}}, f.Pros.Items())
	assert.Equal(t, []editor.Value{{Value: "barulhenta"}}, f.Cons.Items(), "absent key leaves the group alone")
}

func TestApply_ProsConsRejectsWholePayload(t *testing.T) {
	f := seededForm()
	before := snapshot(t, f)

	_, err := Apply(f, KindProsCons, []byte(`{"pros":["a","b"],"cons":"not-an-array"}`))
	ie := importError(t, err)

	assert.Equal(t, "must be an array of strings", ie.Fields()["cons"])
	assert.Equal(t, before, snapshot(t, f))
}

func TestApply_ProsConsRequiresAKey(t *testing.T) {
	_, err := Apply(editor.NewForm(), KindProsCons, []byte(`{"prós":[]}`))
	assert.Contains(t, importError(t, err).Message, "must contain pros or cons")

	_, err = Apply(editor.NewForm(), KindProsCons, []byte(`["a"]`))
	assert.Contains(t, importError(t, err).Message, "must be an object")
}

func TestApply_SpecsCoercion(t *testing.T) {
	f := editor.NewForm()

	res, err := Apply(f, KindSpecs, []byte(`{"Capacidade":"450L","Voltagem":220,"Frost Free":true,"Garantia":null,"Peso":1.5e1,"Altura":1.50,"Litros":1e3}`))
	require.NoError(t, err)

	assert.Equal(t, "7 specifications added", res.Message)
	assert.Equal(t, []editor.Spec{
		{Key: "Capacidade", Value: "450L"},
		{Key: "Voltagem", Value: "220"},
		{Key: "Frost Free", Value: "true"},
		{Key: "Garantia", Value: ""},
		{Key: "Peso", Value: "15"},
		{Key: "Altura", Value: "1.5"},
		{Key: "Litros", Value: "1000"},
	}, f.TechnicalSpecs.Items())
}

func TestApply_SpecsDuplicateKeyKeepsLastValue(t *testing.T) {
	f := editor.NewForm()

	res, err := Apply(f, KindSpecs, []byte(`{"Cor":"Branca","Marca":"Brastemp","Cor":"Preta"}`))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Counts[editor.GroupTechnicalSpecs])
	assert.Equal(t, []editor.Spec{{Key: "Cor", Value: "Preta"}, {Key: "Marca", Value: "Brastemp"}}, f.TechnicalSpecs.Items())
}

func TestApply_SpecsRejectsNestedValues(t *testing.T) {
	f := seededForm()
	before := snapshot(t, f)

	_, err := Apply(f, KindSpecs, []byte(`{"Cor":"Branca","Dimensões":{"altura":180},"Cores":["a"]}`))
	ie := importError(t, err)

	assert.Contains(t, ie.Fields(), "technicalSpecs.Dimensões")
	assert.Contains(t, ie.Fields(), "technicalSpecs.Cores")
	assert.Equal(t, before, snapshot(t, f))
}

func TestApply_Scores(t *testing.T) {
	f := editor.NewForm()

	res, err := Apply(f, KindScores, []byte(`{"Design":8.5,"Eficiência":"9"}`))
	require.NoError(t, err)
	assert.Equal(t, "2 scores added", res.Message)
	assert.Equal(t, []editor.Score{{Key: "Design", Value: 8.5}, {Key: "Eficiência", Value: 9}}, f.Scores.Items())

	_, err = Apply(f, KindScores, []byte(`{"Design":"alto"}`))
	assert.Equal(t, "must be a number", importError(t, err).Fields()["scores.Design"])
	assert.Equal(t, 2, f.Scores.Len())
}

func TestApply_Images(t *testing.T) {
	f := editor.NewForm()

	res, err := Apply(f, KindImages, []byte(`["https://img.example/1.jpg","https://img.example/2.jpg"]`))
	require.NoError(t, err)
	assert.Equal(t, "2 images added to gallery", res.Message)
	assert.Equal(t, 2, f.Images.Len())

	_, err = Apply(f, KindImages, []byte(`{"url":"https://img.example/1.jpg"}`))
	assert.Equal(t, "images JSON must be an array", importError(t, err).Message)
}

func TestApply_OffersFallbackKeys(t *testing.T) {
	f := editor.NewForm()

	res, err := Apply(f, KindOffers, []byte(`[
		{"store":"Amazon","price":1899.9,"offerUrl":"https://a.example/p","storeLogoUrl":"https://a.example/l.png"},
		{"store":"Magalu","price":"1849","url":"https://m.example/p","logo":"https://m.example/l.png"},
		{}
	]`))
	require.NoError(t, err)

	assert.Equal(t, "3 offers added", res.Message)
	assert.Equal(t, []editor.Offer{
		{Store: "Amazon", Price: 1899.9, OfferURL: "https://a.example/p", StoreLogoURL: "https://a.example/l.png"},
		{Store: "Magalu", Price: 1849, OfferURL: "https://m.example/p", StoreLogoURL: "https://m.example/l.png"},
		{},
	}, f.Offers.Items())
}

func TestApply_OffersShapeErrors(t *testing.T) {
	f := editor.NewForm()

	_, err := Apply(f, KindOffers, []byte(`{"store":"Amazon"}`))
	assert.Equal(t, "offers JSON must be an array", importError(t, err).Message)

	_, err = Apply(f, KindOffers, []byte(`[{"store":42,"price":"caro"},"x"]`))
	fields := importError(t, err).Fields()
	assert.Equal(t, "must be a string", fields["offers[0].store"])
	assert.Equal(t, "must be a number", fields["offers[0].price"])
	assert.Equal(t, "must be an object", fields["offers[1]"])
	assert.Zero(t, f.Offers.Len())
}

func TestApply_Keywords(t *testing.T) {
	f := editor.NewForm()

	res, err := Apply(f, KindKeywords, []byte(`{"metaDescription":"Review completo","keywords":["geladeira","frost free"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Review completo", f.MetaDescription)
	assert.Equal(t, []string{"geladeira", "frost free"}, f.Keywords)
	assert.Equal(t, 2, res.Counts["keywords"])

	_, err = Apply(f, KindKeywords, []byte(`{}`))
	assert.Contains(t, importError(t, err).Message, "metaDescription or keywords")
}

func TestApply_Idempotent(t *testing.T) {
	payload := []byte(`{"title":"Air Fryer Philips","pros":["crocante"],"technicalSpecs":{"Capacidade":"4L"},"offers":[{"store":"A","price":1,"url":"https://a.example"}]}`)

	first := editor.NewForm()
	_, err := Apply(first, KindMaster, payload)
	require.NoError(t, err)

	second := editor.NewForm()
	_, err = Apply(second, KindMaster, payload)
	require.NoError(t, err)
	_, err = Apply(second, KindMaster, payload)
	require.NoError(t, err)

	assert.Equal(t, snapshot(t, first), snapshot(t, second))
}

func TestApply_Master(t *testing.T) {
	f := seededForm()
	f.Summary = "resumo anterior que deve ficar"

	res, err := Apply(f, KindMaster, []byte(`{
		"title": "Fogão Atlas 5 Bocas",
		"category": "fogao",
		"rating": 4,
		"summary": "",
		"imageAspectRatio": "portrait",
		"keywords": ["fogão"],
		"faq": [{"question":"Tem acendimento automático?","answer":"Sim, em todas as bocas."}],
		"scores": {"Design": 7},
		"unknownKey": true
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Fogão Atlas 5 Bocas", f.Title)
	assert.Equal(t, "fogao", f.Category)
	assert.Equal(t, float64(4), f.Rating)
	assert.Equal(t, "resumo anterior que deve ficar", f.Summary, "empty scalar is skipped")
	assert.Equal(t, domain.AspectPortrait, f.ImageAspectRatio)
	assert.Equal(t, 1, f.FAQ.Len())
	assert.Equal(t, []editor.Value{{Value: "espaçosa"}}, f.Pros.Items(), "absent group untouched")
	assert.Equal(t, 1, res.Counts[editor.GroupFAQ])
	assert.NotContains(t, res.Counts, "summary")
}

func TestApply_MasterIsAtomic(t *testing.T) {
	f := seededForm()
	before := snapshot(t, f)

	_, err := Apply(f, KindMaster, []byte(`{
		"title": "Título novo aplicado?",
		"pros": ["novo"],
		"technicalSpecs": {"Cor": "Preta"},
		"offers": "nope",
		"rating": "cinco"
	}`))
	ie := importError(t, err)

	assert.Equal(t, KindMaster, ie.Kind)
	assert.Contains(t, ie.Fields(), "offers")
	assert.Contains(t, ie.Fields(), "rating")
	assert.Equal(t, before, snapshot(t, f))
}

func TestApply_CountsOutcomes(t *testing.T) {
	okBefore := testutil.ToFloat64(importsTotal.WithLabelValues(string(KindImages), "ok"))
	rejBefore := testutil.ToFloat64(importsTotal.WithLabelValues(string(KindImages), "rejected"))

	_, _ = Apply(editor.NewForm(), KindImages, []byte(`[]`))
	_, _ = Apply(editor.NewForm(), KindImages, []byte(`{}`))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(importsTotal.WithLabelValues(string(KindImages), "ok")))
	assert.Equal(t, rejBefore+1, testutil.ToFloat64(importsTotal.WithLabelValues(string(KindImages), "rejected")))
}

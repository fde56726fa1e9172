package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
)

func row(number int, pairs ...string) *types.Row {
	r := types.NewRow(number)
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func table(entries ...*Entry) *TranslationMap {
	m := NewTranslationMap()
	for _, e := range entries {
		m.Put(e)
	}
	return m
}

func entry(key string, pairs ...string) *Entry {
	return &Entry{Key: key, Row: 2, Targets: row(2, pairs...)}
}

func TestTranslateRow_AddsTargetFields(t *testing.T) {
	m := table(entry("DE", "Country", "Germany"))
	diags := &types.Diagnostics{}

	out := TranslateRow(row(2, "Land", "DE"), m, diags)

	assert.Equal(t, []string{"Land", "Country"}, out.Keys())
	assert.Equal(t, map[string]string{"Land": "DE", "Country": "Germany"}, out.Map())
	assert.Equal(t, 0, diags.Len())
}

func TestTranslateRow_MissingTranslation(t *testing.T) {
	diags := &types.Diagnostics{}

	out := TranslateRow(row(5, "Land", "XX", "Menge", "0", "Notiz", ""), NewTranslationMap(), diags)

	assert.True(t, out.Marked(types.KeyMissingTranslation))
	require.Equal(t, 1, diags.Len())
	d := diags.Items()[0]
	assert.Equal(t, types.StageTranslate, d.Stage)
	assert.Equal(t, 5, d.Row)
	assert.Equal(t, "Land", d.Column)
	assert.Contains(t, d.Message, "XX")
}

func TestTranslateRow_EmptyAndZeroNotMissing(t *testing.T) {
	diags := &types.Diagnostics{}

	out := TranslateRow(row(2, "A", "", "B", "0"), NewTranslationMap(), diags)

	assert.False(t, out.Marked(types.KeyMissingTranslation))
	assert.Equal(t, 0, diags.Len())
}

func TestTranslateRow_ZeroCanBeTranslated(t *testing.T) {
	m := table(entry("0", "Status", "offen"))

	out := TranslateRow(row(2, "Code", "0"), m, &types.Diagnostics{})
	assert.Equal(t, "offen", out.Value("Status"))
}

func TestTranslateRow_RoundTripWithEmptyMap(t *testing.T) {
	in := row(7, "Land", "DE", "Name", "Anna")
	in.Mark(types.KeyHasValidationErrors)

	out := TranslateRow(in, NewTranslationMap(), &types.Diagnostics{})

	want := in.Clone()
	want.Mark(types.KeyMissingTranslation)
	assert.Equal(t, want.Map(), out.Map())
	assert.Equal(t, want.Keys(), out.Keys())
	assert.Equal(t, 7, out.Number)
}

func TestTranslateRow_DoesNotModifyInput(t *testing.T) {
	in := row(2, "Land", "DE", "Stadt", "Nirgendwo")
	before := in.Map()

	TranslateRow(in, table(entry("DE", "Land", "Deutschland")), &types.Diagnostics{})

	assert.Equal(t, before, in.Map())
	assert.False(t, in.Marked(types.KeyMissingTranslation))
}

func TestTranslateRow_TranslationWinsOverOriginal(t *testing.T) {
	m := table(entry("DE", "Land", "Deutschland"))

	out := TranslateRow(row(2, "Land", "DE"), m, &types.Diagnostics{})

	assert.Equal(t, "Deutschland", out.Value("Land"))
	assert.Equal(t, []string{"Land"}, out.Keys())
}

func TestTranslateRow_TranslationWinsOverLaterOriginal(t *testing.T) {
	m := table(entry("DE", "Name", "Deutschland"))

	out := TranslateRow(row(2, "Land", "DE", "Name", "Anna"), m, &types.Diagnostics{})

	assert.Equal(t, "Deutschland", out.Value("Name"))
}

func TestTranslateRow_LaterColumnWinsAmongTranslations(t *testing.T) {
	m := table(
		entry("DE", "Country", "Germany"),
		entry("AT", "Country", "Austria"),
	)

	out := TranslateRow(row(2, "Land", "DE", "Liefer", "AT"), m, &types.Diagnostics{})

	assert.Equal(t, "Austria", out.Value("Country"))
}

func TestTranslateRow_NoChainedLookup(t *testing.T) {
	m := table(
		entry("DE", "Land", "AT"),
		entry("AT", "Country", "Austria"),
	)

	out := TranslateRow(row(2, "Land", "DE"), m, &types.Diagnostics{})

	assert.Equal(t, "AT", out.Value("Land"))
	assert.False(t, out.Has("Country"))
}

func TestTranslateRow_ReservedColumnsSkipped(t *testing.T) {
	in := row(2, "Land", "DE")
	in.Mark(types.KeyHasValidationErrors)
	diags := &types.Diagnostics{}

	out := TranslateRow(in, table(entry("DE", "Country", "Germany")), diags)

	assert.Equal(t, 0, diags.Len(), "marker value must not be looked up")
	assert.True(t, out.Marked(types.KeyHasValidationErrors))
}

func TestTranslateRow_OneDiagnosticPerUntranslatedValue(t *testing.T) {
	diags := &types.Diagnostics{}

	out := TranslateRow(row(2, "A", "x", "B", "y", "C", "DE"), table(entry("DE", "Country", "Germany")), diags)

	assert.True(t, out.Marked(types.KeyMissingTranslation))
	assert.Equal(t, 2, diags.Len())
	assert.Equal(t, "Germany", out.Value("Country"))
}

func TestTranslate_DatasetHeader(t *testing.T) {
	m := table(entry("DE", "Country", "Germany"))
	rows := []*types.Row{
		row(2, "Land", "DE"),
		row(3, "Land", "XX"),
	}

	ds := Translate(rows, m, &types.Diagnostics{})

	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"Land", "Country", types.KeyMissingTranslation}, ds.Header)
	assert.Equal(t, 1, ds.CountMarked(types.KeyMissingTranslation))
}

func TestTranslateRow_LookupCannotSetMarkers(t *testing.T) {
	g := grid(
		[]string{"Key", types.KeyHasValidationErrors, "Country"},
		[]string{"DE", "true", "Germany"},
	)
	m, err := BuildTranslationMap(g, defaultEngine(), &types.Diagnostics{})
	require.NoError(t, err)

	out := TranslateRow(row(2, "Land", "DE"), m, &types.Diagnostics{})

	assert.False(t, out.Marked(types.KeyHasValidationErrors))
	assert.Equal(t, map[string]string{"Land": "DE", "Country": "Germany"}, out.Map())
}

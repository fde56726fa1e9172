package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-translation-tool/internal/types"
	"github.com/ginjaninja78/excel-translation-tool/internal/validation"
)

func defaultEngine() *validation.Engine {
	return validation.NewEngine(validation.DefaultRuleSet())
}

func grid(rows ...[]string) *types.Grid {
	return types.NewGrid("test.xlsx", "Sheet1", rows)
}

func TestBuildTranslationMap_Basic(t *testing.T) {
	g := grid(
		[]string{"Schluessel", "Country", "Region"},
		[]string{"DE", "Germany", "Europe"},
		[]string{"US", "USA"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"DE", "US"}, m.Keys())
	assert.Equal(t, []string{"Country", "Region"}, m.Fields)

	de, ok := m.Lookup("DE")
	require.True(t, ok)
	assert.Equal(t, 2, de.Row)
	assert.Equal(t, map[string]string{"Country": "Germany", "Region": "Europe"}, de.Targets.Map())

	us, ok := m.Lookup("US")
	require.True(t, ok)
	assert.Equal(t, []string{"Country"}, us.Targets.Keys())

	assert.Equal(t, 0, diags.Len())
}

func TestBuildTranslationMap_TooFewColumns(t *testing.T) {
	for _, g := range []*types.Grid{
		grid(),
		grid([]string{"Schluessel"}, []string{"DE"}),
	} {
		_, err := BuildTranslationMap(g, defaultEngine(), &types.Diagnostics{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStructure)
	}
}

func TestBuildTranslationMap_EmptyKeySkipped(t *testing.T) {
	g := grid(
		[]string{"Key", "Country"},
		[]string{"", "Nowhere"},
		[]string{"DE", "Germany"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	_, ok := m.Lookup("")
	assert.False(t, ok)

	require.Equal(t, 1, diags.Len())
	d := diags.Items()[0]
	assert.Equal(t, types.StageLookup, d.Stage)
	assert.Equal(t, 2, d.Row)
	assert.Contains(t, d.Message, "source key is empty")
}

func TestBuildTranslationMap_DuplicateKeyLastWins(t *testing.T) {
	g := grid(
		[]string{"Key", "Country", "Region"},
		[]string{"DE", "Deutschland", "Europa"},
		[]string{"DE", "Germany"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	de, ok := m.Lookup("DE")
	require.True(t, ok)
	assert.Equal(t, 3, de.Row)
	assert.Equal(t, map[string]string{"Country": "Germany"}, de.Targets.Map(), "earlier mapping must not be merged")

	require.Equal(t, 1, diags.Len())
	assert.Contains(t, diags.Items()[0].Message, "already defined in row 2")
}

func TestBuildTranslationMap_InvalidKeyKept(t *testing.T) {
	long := strings.Repeat("k", 101)
	g := grid(
		[]string{"Key", "Country"},
		[]string{"D€", "Nowhere"},
		[]string{long, "Far"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, diags.Count(types.SeverityWarning))
	for _, d := range diags.Items() {
		assert.Contains(t, d.Message, "unexpected characters")
	}
}

func TestBuildTranslationMap_HeaderFallback(t *testing.T) {
	g := grid(
		[]string{"Key", "", "Country"},
		[]string{"DE", "x", "Germany"},
	)

	m, err := BuildTranslationMap(g, defaultEngine(), &types.Diagnostics{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Target2", "Country"}, m.Fields)

	de, _ := m.Lookup("DE")
	assert.Equal(t, "x", de.Targets.Value("Target2"))
}

func TestBuildTranslationMap_NoTargetValues(t *testing.T) {
	g := grid(
		[]string{"Key", "Country"},
		[]string{"DE"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	de, ok := m.Lookup("DE")
	require.True(t, ok)
	assert.Equal(t, 0, de.Targets.Len())

	require.Equal(t, 1, diags.Len())
	assert.Equal(t, types.SeverityInfo, diags.Items()[0].Severity)
	assert.Contains(t, diags.Items()[0].Message, "no target values")
}

func TestBuildTranslationMap_TargetValuesValidated(t *testing.T) {
	g := grid(
		[]string{"Key", "Email", "PLZ"},
		[]string{"anna", "not-an-email", "01067"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	require.Equal(t, 1, diags.Len())
	d := diags.Items()[0]
	assert.Equal(t, types.StageLookup, d.Stage)
	assert.Equal(t, "Email", d.Column)
	assert.Equal(t, 2, d.Row)

	entry, _ := m.Lookup("anna")
	assert.False(t, entry.Targets.Marked(types.KeyHasValidationErrors))
	assert.Equal(t, "not-an-email", entry.Targets.Value("Email"))
}

func TestBuildTranslationMap_DuplicateTargetHeader(t *testing.T) {
	g := grid(
		[]string{"Key", "Country", "Country"},
		[]string{"DE", "Deutschland", "Germany"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)

	de, _ := m.Lookup("DE")
	assert.Equal(t, "Germany", de.Targets.Value("Country"))
	require.Equal(t, 1, diags.Len())
	assert.Contains(t, diags.Items()[0].Message, "more than once")
}

func TestBuildTranslationMap_DuplicateTargetHeaderBlankRightmost(t *testing.T) {
	g := grid(
		[]string{"Key", "Country", "Country", "Region"},
		[]string{"DE", "Deutschland", "", "Europe"},
	)

	m, err := BuildTranslationMap(g, defaultEngine(), &types.Diagnostics{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Country", "Region"}, m.Fields)

	de, _ := m.Lookup("DE")
	assert.False(t, de.Targets.Has("Country"))
	assert.Equal(t, map[string]string{"Region": "Europe"}, de.Targets.Map())
}

func TestBuildTranslationMap_ReservedTargetHeaderIgnored(t *testing.T) {
	g := grid(
		[]string{"Key", types.KeyHasValidationErrors, "Country"},
		[]string{"DE", "true", "Germany"},
	)
	diags := &types.Diagnostics{}

	m, err := BuildTranslationMap(g, defaultEngine(), diags)
	require.NoError(t, err)
	assert.Equal(t, []string{"Country"}, m.Fields)

	de, _ := m.Lookup("DE")
	assert.Equal(t, map[string]string{"Country": "Germany"}, de.Targets.Map())

	require.Equal(t, 1, diags.Len())
	d := diags.Items()[0]
	assert.Equal(t, types.SeverityWarning, d.Severity)
	assert.Equal(t, 1, d.Row)
	assert.Equal(t, types.KeyHasValidationErrors, d.Column)
	assert.Contains(t, d.Message, "reserved prefix")
}

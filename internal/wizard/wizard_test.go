package wizard

import (
	"errors"
	"testing"
	"time"

	"taxwizard/internal/catalog"
	"taxwizard/internal/i18n"
	"taxwizard/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.MustLoad(), i18n.MustLoad())
}

func newSessionIn(t *testing.T, e *Engine, code string) *Session {
	t.Helper()
	s := NewSession("s-1", "anonymous", "en", time.Now())
	country, ok := e.Catalog().Lookup(code)
	require.True(t, ok)
	s.SelectCountry(country)
	return s
}

func TestComputeAggregate_MalformedIsZero(t *testing.T) {
	values := model.NewFormData("employmentIncome", "1200.50", "otherIncome", "abc")
	total := ComputeAggregate(values, []string{"employmentIncome", "otherIncome"})
	assert.True(t, total.Equal(decimal.RequireFromString("1200.50")), total.String())
}

func TestComputeAggregate_MissingAndMixedKinds(t *testing.T) {
	values := model.NewFormData(
		"a", 100,
		"b", "  50.25 ",
		"c", true,
		"d", "2024-01-01",
	)
	total := ComputeAggregate(values, []string{"a", "b", "c", "d", "missing"})
	assert.True(t, total.Equal(decimal.RequireFromString("150.25")), total.String())
	assert.True(t, ComputeAggregate(model.FormData{}, nil).IsZero())
}

func TestSteps_LocalizedWithCountryLabel(t *testing.T) {
	e := newEngine(t)

	steps, err := e.Steps("CA", "es")
	require.NoError(t, err)
	require.Len(t, steps, StepCount())

	assert.Equal(t, "Información Personal", steps[0].Title)
	assert.Equal(t, "Identificación Fiscal (CA)", steps[0].Fields[2].Label)
	assert.Equal(t, KindDate, steps[0].Fields[3].Kind)
	assert.True(t, steps[1].Fields[0].Required)
	assert.False(t, steps[1].Fields[1].Required)
	assert.True(t, steps[3].IsReview())
	assert.Equal(t, "Revisar y Enviar", steps[3].Title)
}

func TestSteps_UnknownCountry(t *testing.T) {
	_, err := newEngine(t).Steps("ZZ", "en")
	assert.ErrorIs(t, err, ErrNoCountrySelected)
}

func TestSession_Navigation(t *testing.T) {
	e := newEngine(t)
	s := newSessionIn(t, e, "US")

	s.Retreat()
	assert.Equal(t, 0, s.StepIndex)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Advance())
	}
	assert.Equal(t, StepCount()-1, s.StepIndex)
	assert.True(t, s.IsLastStep())

	s.Retreat()
	assert.Equal(t, StepCount()-2, s.StepIndex)
}

func TestSession_AdvanceWithoutCountry(t *testing.T) {
	s := NewSession("s-2", "", "fr", time.Now())
	assert.ErrorIs(t, s.Advance(), ErrNoCountrySelected)
	assert.Equal(t, 0, s.StepIndex)
}

func TestSession_AdvanceIsNotGated(t *testing.T) {
	s := newSessionIn(t, newEngine(t), "GB")
	require.NoError(t, s.Advance())
	assert.Equal(t, 1, s.StepIndex)
}

func TestSession_AdvanceValidated(t *testing.T) {
	e := newEngine(t)
	s := newSessionIn(t, e, "US")
	steps, err := e.Steps(s.CountryCode, s.Language)
	require.NoError(t, err)

	s.SetFieldValue("firstName", model.StringValue("Ada"))
	s.SetFieldValue("lastName", model.StringValue("  "))

	err = s.AdvanceValidated(steps)
	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "personal", missing.Step)
	assert.Equal(t, []string{"lastName", "taxId", "dateOfBirth"}, missing.Fields)
	assert.Equal(t, 0, s.StepIndex)

	s.SetFieldValue("lastName", model.StringValue("Lovelace"))
	s.SetFieldValue("taxId", model.StringValue("123-45-6789"))
	s.SetFieldValue("dateOfBirth", model.ParseValue("1815-12-10"))
	require.NoError(t, s.AdvanceValidated(steps))
	assert.Equal(t, 1, s.StepIndex)
}

func TestSession_SelectCountryResetsStep(t *testing.T) {
	e := newEngine(t)
	s := newSessionIn(t, e, "US")
	require.NoError(t, s.Advance())

	mx, _ := e.Catalog().Lookup("MX")
	s.SelectCountry(mx)
	assert.Equal(t, 0, s.StepIndex)
	assert.Equal(t, "MX", s.CountryCode)
}

func TestSession_NullClearsField(t *testing.T) {
	s := newSessionIn(t, newEngine(t), "US")
	s.SetFieldValue("employmentIncome", model.StringValue("1000"))
	s.SetFieldValue("otherIncome", model.StringValue("250"))

	var null model.FieldValue
	require.NoError(t, null.UnmarshalJSON([]byte("null")))
	assert.True(t, null.IsNull())
	s.SetFieldValue("employmentIncome", null)

	assert.Equal(t, []string{"otherIncome"}, s.Values.Keys())
	_, ok := s.Values.Get("employmentIncome")
	assert.False(t, ok)

	s.SetFieldValue("missing", null)
	assert.Equal(t, 1, s.Values.Len())
}

func TestSession_UnknownLanguageFallsBack(t *testing.T) {
	s := NewSession("s-3", "", "pt", time.Now())
	assert.Equal(t, "en", s.Language)
	s.SelectLanguage("zh")
	assert.Equal(t, "zh", s.Language)
}

func TestSummarize(t *testing.T) {
	e := newEngine(t)
	s := newSessionIn(t, e, "GB")
	s.SetFieldValue("firstName", model.StringValue("Ada"))
	s.SetFieldValue("lastName", model.StringValue("Lovelace"))
	s.SetFieldValue("employmentIncome", model.StringValue("42000"))
	s.SetFieldValue("otherIncome", model.StringValue("1000.5"))
	s.SetFieldValue("medicalExpenses", model.StringValue("oops"))
	s.SetFieldValue("charitableDonations", model.StringValue("250"))

	sum, err := e.Summarize(s)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", sum.Name)
	assert.Equal(t, "", sum.TaxID)
	assert.Equal(t, "GBP", sum.Currency)
	assert.Equal(t, "£43,000.50", sum.Income.TotalFormatted)
	assert.Equal(t, "£250.00", sum.Deductions.TotalFormatted)
	assert.Len(t, sum.Income.Lines, len(IncomeFields))
	assert.Equal(t, "Total Income", sum.Income.TotalLabel)
}

func TestSummarize_NoCountry(t *testing.T) {
	s := NewSession("s-4", "", "en", time.Now())
	_, err := newEngine(t).Summarize(s)
	assert.ErrorIs(t, err, ErrNoCountrySelected)
}

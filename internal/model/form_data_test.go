package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormData_UnmarshalKeepsOrderAndTags(t *testing.T) {
	var d FormData
	err := json.Unmarshal([]byte(`{"lastName":"Doe","employmentIncome":1200.50,"dateOfBirth":"1990-04-01","married":true,"extra":{"a":[1,2]}}`), &d)
	require.NoError(t, err)

	assert.Equal(t, []string{"lastName", "employmentIncome", "dateOfBirth", "married", "extra"}, d.Keys())

	v, _ := d.Get("lastName")
	assert.Equal(t, KindString, v.Kind())
	v, _ = d.Get("employmentIncome")
	assert.Equal(t, KindNumber, v.Kind())
	assert.Equal(t, "1200.50", v.String())
	v, _ = d.Get("dateOfBirth")
	assert.Equal(t, KindDate, v.Kind())
	v, _ = d.Get("married")
	assert.Equal(t, KindBool, v.Kind())
	v, _ = d.Get("extra")
	assert.Equal(t, KindJSON, v.Kind())
}

func TestFormData_MarshalIsVerbatim(t *testing.T) {
	in := `{"b":"x","a":1e3,"d":"2024-01-31","n":null,"o":{"k":"v"}}`
	var d FormData
	require.NoError(t, json.Unmarshal([]byte(in), &d))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestFormData_RejectsNonObject(t *testing.T) {
	var d FormData
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &d))
}

func TestFormData_SetOverwritesInPlace(t *testing.T) {
	d := NewFormData("a", "1", "b", "2")
	d.Set("a", StringValue("3"))
	d.Set("c", BoolValue(true))

	assert.Equal(t, []string{"a", "b", "c"}, d.Keys())
	v, _ := d.Get("a")
	assert.Equal(t, "3", v.String())

	d.Delete("b")
	assert.Equal(t, []string{"a", "c"}, d.Keys())
	assert.Equal(t, 2, d.Len())
}

func TestFormData_CloneIsIndependent(t *testing.T) {
	d := NewFormData("a", "1")
	c := d.Clone()
	c.Set("a", StringValue("changed"))
	c.Set("b", StringValue("new"))

	v, _ := d.Get("a")
	assert.Equal(t, "1", v.String())
	assert.Equal(t, 1, d.Len())
}

func TestFieldValue_Decimal(t *testing.T) {
	d, ok := StringValue(" 12.5 ").Decimal()
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	_, ok = StringValue("12abc").Decimal()
	assert.False(t, ok)

	_, ok = BoolValue(true).Decimal()
	assert.False(t, ok)
}

func TestFieldValue_IsEmpty(t *testing.T) {
	assert.True(t, StringValue("  ").IsEmpty())
	assert.True(t, BoolValue(false).IsEmpty())
	assert.True(t, FieldValue{}.IsEmpty())
	assert.False(t, StringValue("x").IsEmpty())
	assert.False(t, NumberValue(decimal.Zero).IsEmpty())
}

func TestFormData_ScanValue(t *testing.T) {
	d := NewFormData("employmentIncome", "1000", "taxYear", 2024)
	v, err := d.Value()
	require.NoError(t, err)

	var back FormData
	require.NoError(t, back.Scan([]byte(v.(string))))
	assert.Equal(t, d.Keys(), back.Keys())
	got, _ := back.Get("taxYear")
	assert.Equal(t, "2024", got.String())
}

func TestCanTransitionStatus(t *testing.T) {
	assert.True(t, CanTransitionStatus(StatusDraft, StatusCompleted))
	assert.True(t, CanTransitionStatus(StatusDraft, StatusSubmitted))
	assert.True(t, CanTransitionStatus(StatusCompleted, StatusCompleted))
	assert.False(t, CanTransitionStatus(StatusCompleted, StatusDraft))
	assert.False(t, CanTransitionStatus(StatusSubmitted, StatusCompleted))
}

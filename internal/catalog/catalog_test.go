package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DisplaySet(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	countries := c.Countries()
	require.Len(t, countries, 8)
	assert.Equal(t, "US", countries[0].Code)
	assert.Equal(t, "MX", countries[7].Code)

	de, ok := c.Lookup("de")
	require.True(t, ok)
	assert.Equal(t, "Deutschland", de.Name.In("de"))
	assert.Equal(t, "Germany", de.Name.In("pt"))
	assert.Equal(t, "€", de.CurrencySymbol)
	assert.Equal(t, "Einkommensteuererklärung", de.DefaultFormType())

	_, ok = c.Lookup("ZZ")
	assert.False(t, ok)
}

func TestSeedConfigs(t *testing.T) {
	configs, err := SeedConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, "US", configs[0].ID)
	assert.Equal(t, []string{"1040", "Schedule C", "Schedule A"}, []string(configs[0].TaxForms))
	assert.Equal(t, []string{"child", "education", "energy"}, []string(configs[0].Credits))

	gb := configs[1]
	assert.Equal(t, "GB", gb.CountryCode)
	assert.NotNil(t, gb.Credits)
	assert.Empty(t, gb.Credits)
	assert.Equal(t, "£", gb.CurrencySymbol)
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "$0.00"},
		{"1200.5", "$1,200.50"},
		{"999.999", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-4500", "$-4,500.00"},
	}
	for _, tc := range cases {
		got := FormatCurrency(decimal.RequireFromString(tc.amount), "$")
		assert.Equal(t, tc.want, got, tc.amount)
	}
}

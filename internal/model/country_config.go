package model

import "gorm.io/datatypes"

// LocalizedText maps a language code to a display string
type LocalizedText map[string]string

// In returns the text for lang, falling back to English.
func (t LocalizedText) In(lang string) string {
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t["en"]
}

// CountryConfig is the reference metadata of one tax jurisdiction
type CountryConfig struct {
	ID             string                      `gorm:"type:varchar(3);primaryKey" json:"id"`
	CountryCode    string                      `gorm:"type:varchar(3);uniqueIndex;not null" json:"countryCode" yaml:"code"`
	CountryName    LocalizedText               `gorm:"type:jsonb;serializer:json;not null" json:"countryName" yaml:"name"`
	Currency       string                      `gorm:"type:varchar(3);not null" json:"currency" yaml:"currency"`
	CurrencySymbol string                      `gorm:"type:varchar(5);not null" json:"currencySymbol" yaml:"currency_symbol"`
	TaxForms       datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"taxForms" yaml:"tax_forms"`
	Deductions     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"deductions" yaml:"deductions"`
	Credits        datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"credits" yaml:"credits"`
	Position       int                         `gorm:"not null;default:0" json:"-" yaml:"-"` // listing order in SQL storage
}

// Normalize fills the id from the code and replaces nil lists with empty ones.
func (c *CountryConfig) Normalize() {
	c.ID = c.CountryCode
	if c.TaxForms == nil {
		c.TaxForms = datatypes.JSONSlice[string]{}
	}
	if c.Deductions == nil {
		c.Deductions = datatypes.JSONSlice[string]{}
	}
	if c.Credits == nil {
		c.Credits = datatypes.JSONSlice[string]{}
	}
}

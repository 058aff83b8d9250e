package catalog

import (
	"embed"
	"fmt"
	"strings"

	"taxwizard/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Country is one entry of the selection screen
type Country struct {
	Code           string              `json:"code" yaml:"code"`
	Name           model.LocalizedText `json:"name" yaml:"name"`
	Currency       string              `json:"currency" yaml:"currency"`
	CurrencySymbol string              `json:"currencySymbol" yaml:"currency_symbol"`
	FlagEmoji      string              `json:"flagEmoji" yaml:"flag"`
	TaxForms       []string            `json:"taxForms" yaml:"tax_forms"`
}

// DefaultFormType is the form the wizard files for this country.
func (c Country) DefaultFormType() string {
	if len(c.TaxForms) == 0 {
		return ""
	}
	return c.TaxForms[0]
}

// Catalog is the read-only display set of countries.
type Catalog struct {
	countries []Country
}

// Load reads the embedded country list.
func Load() (*Catalog, error) {
	raw, err := dataFS.ReadFile("data/countries.yaml")
	if err != nil {
		return nil, fmt.Errorf("read country catalog: %w", err)
	}
	var countries []Country
	if err := yaml.Unmarshal(raw, &countries); err != nil {
		return nil, fmt.Errorf("parse country catalog: %w", err)
	}
	return &Catalog{countries: countries}, nil
}

func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Countries returns the catalog in display order.
func (c *Catalog) Countries() []Country {
	out := make([]Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// Lookup finds a country by its code, case-insensitively.
func (c *Catalog) Lookup(code string) (Country, bool) {
	for _, country := range c.countries {
		if strings.EqualFold(country.Code, code) {
			return country, true
		}
	}
	return Country{}, false
}

// SeedConfigs returns the country configurations loaded into the store at startup.
func SeedConfigs() ([]model.CountryConfig, error) {
	raw, err := dataFS.ReadFile("data/configs.yaml")
	if err != nil {
		return nil, fmt.Errorf("read country configs: %w", err)
	}
	var configs []model.CountryConfig
	if err := yaml.Unmarshal(raw, &configs); err != nil {
		return nil, fmt.Errorf("parse country configs: %w", err)
	}
	for i := range configs {
		configs[i].Normalize()
		configs[i].Position = i
	}
	return configs, nil
}

// FormatCurrency renders amount as symbol + grouped amount with two decimals, e.g. $1,234.50.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	fixed := amount.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return symbol + sign + b.String() + "." + frac
}

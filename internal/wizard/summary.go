package wizard

import (
	"strings"

	"taxwizard/internal/catalog"

	"github.com/shopspring/decimal"
)

type SummaryLine struct {
	FieldID   string          `json:"fieldId"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

type SummarySection struct {
	Title          string          `json:"title"`
	Lines          []SummaryLine   `json:"lines"`
	TotalLabel     string          `json:"totalLabel"`
	Total          decimal.Decimal `json:"total"`
	TotalFormatted string          `json:"totalFormatted"`
}

// Summary is what the review step shows before submission
type Summary struct {
	Intro      string         `json:"intro"`
	Name       string         `json:"name"`
	TaxID      string         `json:"taxId"`
	Currency   string         `json:"currency"`
	Income     SummarySection `json:"income"`
	Deductions SummarySection `json:"deductions"`
}

// Summarize computes the review totals of s.
func (e *Engine) Summarize(s *Session) (Summary, error) {
	country, ok := e.catalog.Lookup(s.CountryCode)
	if !ok {
		return Summary{}, ErrNoCountrySelected
	}

	lang := s.Language
	first, _ := s.Values.Get("firstName")
	last, _ := s.Values.Get("lastName")
	taxID, _ := s.Values.Get("taxId")

	return Summary{
		Intro:      e.text.T(lang, "wizard.review.intro"),
		Name:       strings.TrimSpace(textOf(first.String()) + " " + textOf(last.String())),
		TaxID:      textOf(taxID.String()),
		Currency:   country.Currency,
		Income:     e.section(s, country, "summary.income", "summary.totalIncome", IncomeFields),
		Deductions: e.section(s, country, "summary.deductions", "summary.totalDeductions", DeductionFields),
	}, nil
}

func (e *Engine) section(s *Session, country catalog.Country, titleKey, totalKey string, fieldIDs []string) SummarySection {
	lang := s.Language
	sec := SummarySection{
		Title:      e.text.T(lang, titleKey),
		TotalLabel: e.text.T(lang, totalKey),
		Lines:      make([]SummaryLine, 0, len(fieldIDs)),
	}
	for _, id := range fieldIDs {
		amount := ComputeAggregate(s.Values, []string{id})
		sec.Lines = append(sec.Lines, SummaryLine{
			FieldID:   id,
			Label:     e.text.T(lang, "field."+id),
			Amount:    amount,
			Formatted: catalog.FormatCurrency(amount, country.CurrencySymbol),
		})
	}
	sec.Total = ComputeAggregate(s.Values, fieldIDs)
	sec.TotalFormatted = catalog.FormatCurrency(sec.Total, country.CurrencySymbol)
	return sec
}

// textOf hides the "null" rendering of an absent answer.
func textOf(s string) string {
	if s == "null" {
		return ""
	}
	return s
}

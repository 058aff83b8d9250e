package wizard

import (
	"taxwizard/internal/catalog"
	"taxwizard/internal/i18n"
)

// FieldKind is the input control a field renders as
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindDate     FieldKind = "date"
	KindCurrency FieldKind = "currency"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
)

type Field struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"type"`
	Required bool      `json:"required"`
}

type Step struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// IsReview reports whether the step is the read-only review/submit page.
func (s Step) IsReview() bool { return len(s.Fields) == 0 }

// Field ids summed on the review page
var (
	IncomeFields    = []string{"employmentIncome", "selfEmploymentIncome", "investmentIncome", "otherIncome"}
	DeductionFields = []string{"charitableDonations", "medicalExpenses", "educationExpenses", "mortgageInterest"}
)

type fieldDef struct {
	id       string
	kind     FieldKind
	required bool
}

type stepDef struct {
	key    string
	fields []fieldDef
}

var stepDefs = []stepDef{
	{key: "personal", fields: []fieldDef{
		{id: "firstName", kind: KindText, required: true},
		{id: "lastName", kind: KindText, required: true},
		{id: "taxId", kind: KindText, required: true},
		{id: "dateOfBirth", kind: KindDate, required: true},
	}},
	{key: "income", fields: []fieldDef{
		{id: "employmentIncome", kind: KindCurrency, required: true},
		{id: "selfEmploymentIncome", kind: KindCurrency},
		{id: "investmentIncome", kind: KindCurrency},
		{id: "otherIncome", kind: KindCurrency},
	}},
	{key: "deductions", fields: []fieldDef{
		{id: "charitableDonations", kind: KindCurrency},
		{id: "medicalExpenses", kind: KindCurrency},
		{id: "educationExpenses", kind: KindCurrency},
		{id: "mortgageInterest", kind: KindCurrency},
	}},
	{key: "review"},
}

// StepCount is the number of wizard pages, review included.
func StepCount() int { return len(stepDefs) }

// Engine renders the localized step list for a country.
type Engine struct {
	catalog *catalog.Catalog
	text    *i18n.Table
}

func NewEngine(c *catalog.Catalog, t *i18n.Table) *Engine {
	return &Engine{catalog: c, text: t}
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

func (e *Engine) Text() *i18n.Table { return e.text }

// Steps returns the ordered steps for countryCode in lang.
func (e *Engine) Steps(countryCode, lang string) ([]Step, error) {
	country, ok := e.catalog.Lookup(countryCode)
	if !ok {
		return nil, ErrNoCountrySelected
	}

	steps := make([]Step, 0, len(stepDefs))
	for _, def := range stepDefs {
		step := Step{
			Key:    def.key,
			Title:  e.text.T(lang, "step."+def.key),
			Fields: make([]Field, 0, len(def.fields)),
		}
		for _, f := range def.fields {
			step.Fields = append(step.Fields, Field{
				ID:       f.id,
				Label:    e.text.Tf(lang, "field."+f.id, map[string]string{"country": country.Code}),
				Kind:     f.kind,
				Required: f.required,
			})
		}
		steps = append(steps, step)
	}
	return steps, nil
}

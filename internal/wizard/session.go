package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taxwizard/internal/catalog"
	"taxwizard/internal/i18n"
	"taxwizard/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoCountrySelected means the caller must go back to country selection.
var ErrNoCountrySelected = errors.New("no country selected")

// MissingFieldsError lists required fields of a step that are still empty.
type MissingFieldsError struct {
	Step   string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("step %q has empty required fields: %s", e.Step, strings.Join(e.Fields, ", "))
}

// Session is the mutable state of one user going through the wizard
type Session struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"userId"`
	CountryCode string         `json:"countryCode"`
	Language    string         `json:"language"`
	StepIndex   int            `json:"stepIndex"`
	Values      model.FormData `json:"formData"`
	FormID      *uuid.UUID     `json:"formId"` // set once the session has been saved
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// NewSession starts a session on the first step.
func NewSession(id, ownerID, lang string, now time.Time) *Session {
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLanguage
	}
	return &Session{
		ID:        id,
		OwnerID:   ownerID,
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) Clone() *Session {
	out := *s
	out.Values = s.Values.Clone()
	if s.FormID != nil {
		id := *s.FormID
		out.FormID = &id
	}
	return &out
}

// SelectCountry switches jurisdiction and restarts at the first step.
func (s *Session) SelectCountry(c catalog.Country) {
	s.CountryCode = c.Code
	s.StepIndex = 0
}

func (s *Session) SelectLanguage(lang string) {
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLanguage
	}
	s.Language = lang
}

func (s *Session) HasCountry() bool { return s.CountryCode != "" }

// IsLastStep reports whether the session sits on the review step.
func (s *Session) IsLastStep() bool { return s.StepIndex >= StepCount()-1 }

// Advance moves one step forward. Required fields are not checked.
func (s *Session) Advance() error {
	if !s.HasCountry() {
		return ErrNoCountrySelected
	}
	if s.StepIndex < StepCount()-1 {
		s.StepIndex++
	}
	return nil
}

// AdvanceValidated moves forward only when the current step's required fields are answered.
func (s *Session) AdvanceValidated(steps []Step) error {
	if !s.HasCountry() {
		return ErrNoCountrySelected
	}
	if s.StepIndex < len(steps) {
		if missing := s.MissingRequired(steps[s.StepIndex]); len(missing) > 0 {
			return &MissingFieldsError{Step: steps[s.StepIndex].Key, Fields: missing}
		}
	}
	return s.Advance()
}

// Retreat moves one step back; a no-op on the first step.
func (s *Session) Retreat() {
	if s.StepIndex > 0 {
		s.StepIndex--
	}
}

// SetFieldValue stores v under fieldID without coercion. A JSON null clears the answer.
func (s *Session) SetFieldValue(fieldID string, v model.FieldValue) {
	if v.IsNull() {
		s.Values.Delete(fieldID)
		return
	}
	s.Values.Set(fieldID, v)
}

// MissingRequired returns the ids of required fields of step with no answer.
func (s *Session) MissingRequired(step Step) []string {
	var missing []string
	for _, f := range step.Fields {
		if !f.Required {
			continue
		}
		if v, ok := s.Values.Get(f.ID); !ok || v.IsEmpty() {
			missing = append(missing, f.ID)
		}
	}
	return missing
}

// ComputeAggregate sums the numeric answers of fieldIDs. Missing or
// non-numeric answers count as zero.
func ComputeAggregate(values model.FormData, fieldIDs []string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range fieldIDs {
		v, ok := values.Get(id)
		if !ok {
			continue
		}
		if d, ok := v.Decimal(); ok {
			total = total.Add(d)
		}
	}
	return total
}

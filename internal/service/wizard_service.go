package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taxwizard/internal/model"
	"taxwizard/internal/repository"
	"taxwizard/internal/wizard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnonymousOwner is stored on forms saved from sessions without a user id
const AnonymousOwner = "anonymous"

// --- DTOs ---

type CreateSessionRequest struct {
	UserID      string `json:"userId"`
	Language    string `json:"language" binding:"omitempty,min=2,max=5"`
	CountryCode string `json:"countryCode" binding:"omitempty,min=2,max=3"`
}

type SelectCountryRequest struct {
	CountryCode string `json:"countryCode" binding:"required,min=2,max=3"`
}

type SelectLanguageRequest struct {
	Language string `json:"language" binding:"required,min=2,max=5"`
}

type SetFieldsRequest struct {
	Values *model.FormData `json:"values" binding:"required"`
}

// SessionView is a session plus its localized steps.
type SessionView struct {
	*wizard.Session
	CountryName string        `json:"countryName,omitempty"`
	Greeting    string        `json:"greeting"`
	Steps       []wizard.Step `json:"steps,omitempty"`
	CurrentStep *wizard.Step  `json:"currentStep,omitempty"`
	TotalSteps  int           `json:"totalSteps"`
	IsLastStep  bool          `json:"isLastStep"`
	Progress    int           `json:"progress"` // percent
}

// --- Interface ---

type WizardService interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionView, error)
	GetSession(ctx context.Context, id string) (*SessionView, error)
	SelectCountry(ctx context.Context, id string, req SelectCountryRequest) (*SessionView, error)
	SelectLanguage(ctx context.Context, id string, req SelectLanguageRequest) (*SessionView, error)
	SetFields(ctx context.Context, id string, req SetFieldsRequest) (*SessionView, error)
	Next(ctx context.Context, id string, validate bool) (*SessionView, error)
	Previous(ctx context.Context, id string) (*SessionView, error)
	Summary(ctx context.Context, id string) (*wizard.Summary, error)
	Save(ctx context.Context, id string) (*model.TaxForm, error)
	Submit(ctx context.Context, id string) (*model.TaxForm, error)
	DeleteSession(ctx context.Context, id string) error
}

type wizardService struct {
	engine   *wizard.Engine
	sessions repository.SessionRepository
	forms    FormService
	logger   *zap.Logger
	now      func() time.Time
}

func NewWizardService(engine *wizard.Engine, sessions repository.SessionRepository, forms FormService, logger *zap.Logger) WizardService {
	return &wizardService{
		engine:   engine,
		sessions: sessions,
		forms:    forms,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// --- Implementation ---

func (s *wizardService) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionView, error) {
	owner := req.UserID
	if owner == "" {
		owner = AnonymousOwner
	}
	session := wizard.NewSession(uuid.NewString(), owner, req.Language, s.now())

	if req.CountryCode != "" {
		country, ok := s.engine.Catalog().Lookup(req.CountryCode)
		if !ok {
			return nil, invalid("unknown country code: " + req.CountryCode)
		}
		session.SelectCountry(country)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.view(session), nil
}

func (s *wizardService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.HasCountry() {
		return nil, wizard.ErrNoCountrySelected
	}
	return s.view(session), nil
}

func (s *wizardService) SelectCountry(ctx context.Context, id string, req SelectCountryRequest) (*SessionView, error) {
	country, ok := s.engine.Catalog().Lookup(req.CountryCode)
	if !ok {
		return nil, invalid("unknown country code: " + req.CountryCode)
	}
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		session.SelectCountry(country)
		return nil
	})
}

func (s *wizardService) SelectLanguage(ctx context.Context, id string, req SelectLanguageRequest) (*SessionView, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		session.SelectLanguage(req.Language)
		return nil
	})
}

func (s *wizardService) SetFields(ctx context.Context, id string, req SetFieldsRequest) (*SessionView, error) {
	if req.Values == nil {
		return nil, invalid("values is required")
	}
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		if !session.HasCountry() {
			return wizard.ErrNoCountrySelected
		}
		for _, key := range req.Values.Keys() {
			v, _ := req.Values.Get(key)
			session.SetFieldValue(key, v)
		}
		return nil
	})
}

func (s *wizardService) Next(ctx context.Context, id string, validate bool) (*SessionView, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		if !validate {
			return session.Advance()
		}
		steps, err := s.engine.Steps(session.CountryCode, session.Language)
		if err != nil {
			return err
		}
		return session.AdvanceValidated(steps)
	})
}

func (s *wizardService) Previous(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		if !session.HasCountry() {
			return wizard.ErrNoCountrySelected
		}
		session.Retreat()
		return nil
	})
}

func (s *wizardService) Summary(ctx context.Context, id string) (*wizard.Summary, error) {
	session, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	summary, err := s.engine.Summarize(session)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *wizardService) Save(ctx context.Context, id string) (*model.TaxForm, error) {
	return s.persist(ctx, id, model.StatusDraft)
}

func (s *wizardService) Submit(ctx context.Context, id string) (*model.TaxForm, error) {
	return s.persist(ctx, id, model.StatusCompleted)
}

func (s *wizardService) DeleteSession(ctx context.Context, id string) error {
	existed, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if !existed {
		return ErrSessionNotFound
	}
	return nil
}

// --- Helpers ---

// persist creates the session's form on first save and updates it afterwards.
// It runs inside the session update so two saves of one session cannot both create a form.
func (s *wizardService) persist(ctx context.Context, id, status string) (*model.TaxForm, error) {
	var saved *model.TaxForm
	_, err := s.mutate(ctx, id, func(session *wizard.Session) error {
		country, ok := s.engine.Catalog().Lookup(session.CountryCode)
		if !ok {
			return wizard.ErrNoCountrySelected
		}

		form, err := s.writeForm(ctx, session, country.DefaultFormType(), status)
		if err != nil {
			return err
		}
		formID := form.ID
		session.FormID = &formID
		saved = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *wizardService) writeForm(ctx context.Context, session *wizard.Session, formType, status string) (*model.TaxForm, error) {
	values := session.Values.Clone()
	year := s.now().Year()
	owner := session.OwnerID

	if session.FormID != nil {
		form, err := s.forms.UpdateForm(ctx, session.FormID.String(), UpdateTaxFormRequest{
			CountryCode: &session.CountryCode,
			FormType:    &formType,
			TaxYear:     &year,
			FormData:    &values,
			Status:      &status,
			Language:    &session.Language,
		})
		if err == nil {
			return form, nil
		}
		if !errors.Is(err, ErrFormNotFound) {
			return nil, err
		}
		s.logger.Info("saved form is gone, creating a new one", zap.String("session_id", session.ID))
	}

	return s.forms.CreateForm(ctx, CreateTaxFormRequest{
		UserID:      &owner,
		CountryCode: session.CountryCode,
		FormType:    formType,
		TaxYear:     year,
		FormData:    &values,
		Status:      status,
		Language:    session.Language,
	})
}

func (s *wizardService) find(ctx context.Context, id string) (*wizard.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return session, nil
}

func (s *wizardService) mutate(ctx context.Context, id string, fn func(session *wizard.Session) error) (*SessionView, error) {
	session, err := s.sessions.Update(ctx, id, func(session *wizard.Session) error {
		if err := fn(session); err != nil {
			return err
		}
		if now := s.now(); now.After(session.UpdatedAt) {
			session.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.view(session), nil
}

func (s *wizardService) view(session *wizard.Session) *SessionView {
	text := s.engine.Text()
	v := &SessionView{
		Session:    session,
		Greeting:   text.T(session.Language, "wizard.aiGreeting"),
		TotalSteps: wizard.StepCount(),
		IsLastStep: session.IsLastStep(),
	}
	if wizard.StepCount() > 1 {
		v.Progress = session.StepIndex * 100 / (wizard.StepCount() - 1)
	}

	country, ok := s.engine.Catalog().Lookup(session.CountryCode)
	if !ok {
		return v
	}
	v.CountryName = country.Name.In(session.Language)
	steps, err := s.engine.Steps(country.Code, session.Language)
	if err != nil {
		return v
	}
	v.Steps = steps
	if session.StepIndex < len(steps) {
		current := steps[session.StepIndex]
		v.CurrentStep = &current
	}
	return v
}

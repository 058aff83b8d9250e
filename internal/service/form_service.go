package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxwizard/internal/metrics"
	"taxwizard/internal/model"
	"taxwizard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateTaxFormRequest struct {
	UserID      *string         `json:"userId"`
	CountryCode string          `json:"countryCode" binding:"required,min=2,max=3"`
	FormType    string          `json:"formType" binding:"required"`
	TaxYear     int             `json:"taxYear" binding:"required,min=1900,max=2100"`
	FormData    *model.FormData `json:"formData" binding:"required"`
	Status      string          `json:"status" binding:"omitempty,oneof=draft completed submitted"`
	Language    string          `json:"language" binding:"omitempty,min=2,max=5"`
}

// UpdateTaxFormRequest is a shallow patch: nil fields keep their stored value,
// a present formData replaces the stored one as a whole.
type UpdateTaxFormRequest struct {
	UserID      *string         `json:"userId"`
	CountryCode *string         `json:"countryCode" binding:"omitempty,min=2,max=3"`
	FormType    *string         `json:"formType"`
	TaxYear     *int            `json:"taxYear" binding:"omitempty,min=1900,max=2100"`
	FormData    *model.FormData `json:"formData"`
	Status      *string         `json:"status" binding:"omitempty,oneof=draft completed submitted"`
	Language    *string         `json:"language" binding:"omitempty,min=2,max=5"`
}

// EventPublisher fans form events out to live subscribers.
type EventPublisher interface {
	Publish(event model.FormEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(model.FormEvent) {}

// --- Interface ---

type FormService interface {
	CreateForm(ctx context.Context, req CreateTaxFormRequest) (*model.TaxForm, error)
	GetForm(ctx context.Context, id string) (*model.TaxForm, error)
	ListFormsByOwner(ctx context.Context, ownerID string) ([]model.TaxForm, error)
	UpdateForm(ctx context.Context, id string, req UpdateTaxFormRequest) (*model.TaxForm, error)
	DeleteForm(ctx context.Context, id string) error
}

type formService struct {
	forms  repository.TaxFormRepository
	events EventPublisher
	logger *zap.Logger
}

func NewFormService(forms repository.TaxFormRepository, events EventPublisher, logger *zap.Logger) FormService {
	if events == nil {
		events = noopPublisher{}
	}
	return &formService{forms: forms, events: events, logger: logger}
}

// --- Implementation ---

func (s *formService) CreateForm(ctx context.Context, req CreateTaxFormRequest) (*model.TaxForm, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	form := &model.TaxForm{
		UserID:      req.UserID,
		CountryCode: req.CountryCode,
		FormType:    req.FormType,
		TaxYear:     req.TaxYear,
		FormData:    req.FormData.Clone(),
		Status:      req.Status,
		Language:    req.Language,
	}
	if err := s.forms.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create tax form: %w", err)
	}

	s.publish(model.EventFormCreated, form)
	s.refreshGauge(ctx)
	return form, nil
}

func (s *formService) GetForm(ctx context.Context, id string) (*model.TaxForm, error) {
	formID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrFormNotFound
	}
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to fetch tax form: %w", err)
	}
	return form, nil
}

func (s *formService) ListFormsByOwner(ctx context.Context, ownerID string) ([]model.TaxForm, error) {
	forms, err := s.forms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax forms: %w", err)
	}
	return forms, nil
}

func (s *formService) UpdateForm(ctx context.Context, id string, req UpdateTaxFormRequest) (*model.TaxForm, error) {
	formID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrFormNotFound
	}
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	form, err := s.forms.Update(ctx, formID, func(f *model.TaxForm) error {
		return applyUpdate(f, req)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		if errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update tax form: %w", err)
	}

	s.publish(model.EventFormUpdated, form)
	return form, nil
}

func (s *formService) DeleteForm(ctx context.Context, id string) error {
	formID, err := uuid.Parse(id)
	if err != nil {
		return ErrFormNotFound
	}
	existed, err := s.forms.Delete(ctx, formID)
	if err != nil {
		return fmt.Errorf("failed to delete tax form: %w", err)
	}
	if !existed {
		return ErrFormNotFound
	}

	s.events.Publish(model.FormEvent{Type: model.EventFormDeleted, FormID: id, OccurredAt: time.Now().UTC()})
	s.refreshGauge(ctx)
	return nil
}

// --- Helpers ---

func (s *formService) publish(eventType string, form *model.TaxForm) {
	s.events.Publish(model.FormEvent{
		Type:       eventType,
		FormID:     form.ID.String(),
		Status:     form.Status,
		OccurredAt: form.UpdatedAt,
	})
}

func (s *formService) refreshGauge(ctx context.Context) {
	total, err := s.forms.Count(ctx)
	if err != nil {
		s.logger.Warn("failed to count tax forms", zap.Error(err))
		return
	}
	metrics.StoredForms.Set(float64(total))
}

// validateCreate applies the creation rules and fills the defaults. Handlers
// bind with the same rules; this keeps callers that skip binding honest.
func validateCreate(req *CreateTaxFormRequest) error {
	req.CountryCode = strings.TrimSpace(req.CountryCode)
	if n := len(req.CountryCode); n != 2 && n != 3 {
		return invalid("countryCode must be 2 or 3 characters")
	}
	if strings.TrimSpace(req.FormType) == "" {
		return invalid("formType is required")
	}
	if req.TaxYear < 1900 || req.TaxYear > 2100 {
		return invalid("taxYear must be between 1900 and 2100")
	}
	if req.FormData == nil {
		return invalid("formData is required")
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !model.IsValidStatus(req.Status) {
		return invalid("status must be one of draft, completed, submitted")
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if n := len(req.Language); n < 2 || n > 5 {
		return invalid("language must be 2 to 5 characters")
	}
	return nil
}

func validateUpdate(req UpdateTaxFormRequest) error {
	if req.CountryCode != nil {
		if n := len(*req.CountryCode); n != 2 && n != 3 {
			return invalid("countryCode must be 2 or 3 characters")
		}
	}
	if req.FormType != nil && strings.TrimSpace(*req.FormType) == "" {
		return invalid("formType must not be empty")
	}
	if req.TaxYear != nil && (*req.TaxYear < 1900 || *req.TaxYear > 2100) {
		return invalid("taxYear must be between 1900 and 2100")
	}
	if req.Status != nil && !model.IsValidStatus(*req.Status) {
		return invalid("status must be one of draft, completed, submitted")
	}
	if req.Language != nil {
		if n := len(*req.Language); n < 2 || n > 5 {
			return invalid("language must be 2 to 5 characters")
		}
	}
	return nil
}

// applyUpdate runs under the store lock.
func applyUpdate(f *model.TaxForm, req UpdateTaxFormRequest) error {
	if req.Status != nil {
		if !model.CanTransitionStatus(f.Status, *req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.Status, *req.Status)
		}
		f.Status = *req.Status
	}
	if req.UserID != nil {
		owner := *req.UserID
		f.UserID = &owner
	}
	if req.CountryCode != nil {
		f.CountryCode = *req.CountryCode
	}
	if req.FormType != nil {
		f.FormType = *req.FormType
	}
	if req.TaxYear != nil {
		f.TaxYear = *req.TaxYear
	}
	if req.FormData != nil {
		f.FormData = req.FormData.Clone()
	}
	if req.Language != nil {
		f.Language = *req.Language
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"taxwizard/internal/model"
	"taxwizard/internal/wizard"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown ids and codes
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create would replace an existing record
	ErrConflict = errors.New("record already exists")
)

// TaxFormRepository stores draft and submitted forms
type TaxFormRepository interface {
	// Create assigns a fresh id and equal created/updated timestamps.
	Create(ctx context.Context, form *model.TaxForm) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TaxForm, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.TaxForm, error)
	// Update runs mutate on the current record while it is locked, then stores
	// the result with a refreshed updated timestamp. An error from mutate aborts
	// the update and is returned as is.
	Update(ctx context.Context, id uuid.UUID, mutate func(form *model.TaxForm) error) (*model.TaxForm, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// CountryConfigRepository serves the seeded jurisdiction metadata
type CountryConfigRepository interface {
	List(ctx context.Context) ([]model.CountryConfig, error)
	FindByCode(ctx context.Context, code string) (*model.CountryConfig, error)
	// Create adds a new jurisdiction; an existing code yields ErrConflict and is left untouched.
	Create(ctx context.Context, cfg *model.CountryConfig) error
}

// AIAssistanceRepository is the append-only log of AI exchanges
type AIAssistanceRepository interface {
	Create(ctx context.Context, req *model.AiAssistanceRequest) error
	ListByForm(ctx context.Context, formID string) ([]model.AiAssistanceRequest, error)
}

// SessionRepository keeps wizard sessions for the lifetime of the process
type SessionRepository interface {
	Create(ctx context.Context, s *wizard.Session) error
	FindByID(ctx context.Context, id string) (*wizard.Session, error)
	Update(ctx context.Context, id string, mutate func(s *wizard.Session) error) (*wizard.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Store groups the repositories handed to the services.
type Store struct {
	TaxForms     TaxFormRepository
	Countries    CountryConfigRepository
	AIAssistance AIAssistanceRepository
	Sessions     SessionRepository
}

// Clock returns the current time; tests replace it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

type options struct {
	clock Clock
}

type Option func(*options)

// WithClock overrides the time source used for timestamps.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

func buildOptions(opts []Option) options {
	o := options{clock: systemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// touch returns the next updated timestamp, never earlier than prev.
func touch(now, prev time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}

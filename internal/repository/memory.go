package repository

import (
	"context"
	"strings"
	"sync"

	"taxwizard/internal/model"
	"taxwizard/internal/wizard"

	"github.com/google/uuid"
)

// NewMemoryStore builds the process-local store seeded with country configs.
func NewMemoryStore(seed []model.CountryConfig, opts ...Option) *Store {
	o := buildOptions(opts)

	countries := &memoryCountryConfigRepository{byCode: map[string]model.CountryConfig{}}
	for _, cfg := range seed {
		countries.put(cfg)
	}

	return &Store{
		TaxForms:     &memoryTaxFormRepository{rows: map[uuid.UUID]model.TaxForm{}, now: o.clock},
		Countries:    countries,
		AIAssistance: &memoryAIAssistanceRepository{now: o.clock},
		Sessions:     NewMemorySessionRepository(),
	}
}

// --- Tax forms ---

type memoryTaxFormRepository struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]model.TaxForm
	order []uuid.UUID
	now   Clock
}

func (r *memoryTaxFormRepository) Create(_ context.Context, form *model.TaxForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	form.ID = uuid.New()
	form.CreatedAt = now
	form.UpdatedAt = now

	r.rows[form.ID] = form.Clone()
	r.order = append(r.order, form.ID)
	return nil
}

func (r *memoryTaxFormRepository) FindByID(_ context.Context, id uuid.UUID) (*model.TaxForm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := row.Clone()
	return &out, nil
}

func (r *memoryTaxFormRepository) ListByOwner(_ context.Context, ownerID string) ([]model.TaxForm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	forms := make([]model.TaxForm, 0)
	for _, id := range r.order {
		row := r.rows[id]
		if row.UserID != nil && *row.UserID == ownerID {
			forms = append(forms, row.Clone())
		}
	}
	return forms, nil
}

func (r *memoryTaxFormRepository) Update(_ context.Context, id uuid.UUID, mutate func(form *model.TaxForm) error) (*model.TaxForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}

	next := current.Clone()
	if err := mutate(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = touch(r.now(), current.UpdatedAt)

	r.rows[id] = next.Clone()
	return &next, nil
}

func (r *memoryTaxFormRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *memoryTaxFormRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rows)), nil
}

// --- Country configs ---

type memoryCountryConfigRepository struct {
	mu     sync.RWMutex
	byCode map[string]model.CountryConfig
	order  []string
}

func (r *memoryCountryConfigRepository) put(cfg model.CountryConfig) {
	cfg.Normalize()
	if _, exists := r.byCode[cfg.CountryCode]; !exists {
		r.order = append(r.order, cfg.CountryCode)
	}
	r.byCode[cfg.CountryCode] = cfg
}

func (r *memoryCountryConfigRepository) List(_ context.Context) ([]model.CountryConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.CountryConfig, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.byCode[code])
	}
	return out, nil
}

func (r *memoryCountryConfigRepository) FindByCode(_ context.Context, code string) (*model.CountryConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (r *memoryCountryConfigRepository) Create(_ context.Context, cfg *model.CountryConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg.CountryCode = strings.ToUpper(strings.TrimSpace(cfg.CountryCode))
	if _, exists := r.byCode[cfg.CountryCode]; exists {
		return ErrConflict
	}
	cfg.Normalize()
	r.put(*cfg)
	return nil
}

// --- AI assistance log ---

type memoryAIAssistanceRepository struct {
	mu   sync.RWMutex
	rows []model.AiAssistanceRequest
	now  Clock
}

func (r *memoryAIAssistanceRepository) Create(_ context.Context, req *model.AiAssistanceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.ID = uuid.New()
	req.CreatedAt = r.now()
	r.rows = append(r.rows, *req)
	return nil
}

func (r *memoryAIAssistanceRepository) ListByForm(_ context.Context, formID string) ([]model.AiAssistanceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.AiAssistanceRequest, 0)
	for _, row := range r.rows {
		if row.FormID == formID {
			out = append(out, row)
		}
	}
	return out, nil
}

// --- Wizard sessions ---

type memorySessionRepository struct {
	mu   sync.Mutex
	rows map[string]*wizard.Session
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{rows: map[string]*wizard.Session{}}
}

func (r *memorySessionRepository) Create(_ context.Context, s *wizard.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.rows[s.ID] = s.Clone()
	return nil
}

func (r *memorySessionRepository) FindByID(_ context.Context, id string) (*wizard.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (r *memorySessionRepository) Update(_ context.Context, id string, mutate func(s *wizard.Session) error) (*wizard.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	r.rows[id] = next.Clone()
	return next, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

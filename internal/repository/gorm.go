package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taxwizard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// runInTx executes fn inside a transaction carried by the context.
func runInTx(ctx context.Context, db *gorm.DB, fn func(txCtx context.Context) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// getDB extracts the transaction DB from context if present, otherwise returns root DB.
func getDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// NewGormStore builds a SQL-backed store and inserts any missing seed configs.
// Wizard sessions stay in memory.
func NewGormStore(ctx context.Context, db *gorm.DB, seed []model.CountryConfig, opts ...Option) (*Store, error) {
	o := buildOptions(opts)

	countries := &gormCountryConfigRepository{db: db}
	if err := countries.seed(ctx, seed); err != nil {
		return nil, err
	}

	return &Store{
		TaxForms:     &gormTaxFormRepository{db: db, now: o.clock},
		Countries:    countries,
		AIAssistance: &gormAIAssistanceRepository{db: db, now: o.clock},
		Sessions:     NewMemorySessionRepository(),
	}, nil
}

// --- Tax forms ---

type gormTaxFormRepository struct {
	db  *gorm.DB
	now Clock
}

func (r *gormTaxFormRepository) Create(ctx context.Context, form *model.TaxForm) error {
	now := r.now()
	form.ID = uuid.New()
	form.CreatedAt = now
	form.UpdatedAt = now
	return getDB(ctx, r.db).Create(form).Error
}

func (r *gormTaxFormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TaxForm, error) {
	var form model.TaxForm
	if err := getDB(ctx, r.db).First(&form, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

func (r *gormTaxFormRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.TaxForm, error) {
	forms := make([]model.TaxForm, 0)
	if err := getDB(ctx, r.db).Where("user_id = ?", ownerID).Order("created_at asc").Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// Update locks the row with SELECT ... FOR UPDATE so concurrent editors are serialized.
func (r *gormTaxFormRepository) Update(ctx context.Context, id uuid.UUID, mutate func(form *model.TaxForm) error) (*model.TaxForm, error) {
	var updated model.TaxForm
	err := runInTx(ctx, r.db, func(txCtx context.Context) error {
		var current model.TaxForm
		err := getDB(txCtx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		next := current.Clone()
		if err := mutate(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = touch(r.now(), current.UpdatedAt)

		if err := getDB(txCtx, r.db).Save(&next).Error; err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *gormTaxFormRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := getDB(ctx, r.db).Where("id = ?", id).Delete(&model.TaxForm{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormTaxFormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&model.TaxForm{}).Count(&total).Error
	return total, err
}

// --- Country configs ---

type gormCountryConfigRepository struct {
	db *gorm.DB
}

func (r *gormCountryConfigRepository) seed(ctx context.Context, seed []model.CountryConfig) error {
	if len(seed) == 0 {
		return nil
	}
	rows := make([]model.CountryConfig, len(seed))
	for i, cfg := range seed {
		cfg.Normalize()
		cfg.Position = i
		rows[i] = cfg
	}
	if err := getDB(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed country configs: %w", err)
	}
	return nil
}

func (r *gormCountryConfigRepository) List(ctx context.Context) ([]model.CountryConfig, error) {
	configs := make([]model.CountryConfig, 0)
	if err := getDB(ctx, r.db).Order("position asc").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *gormCountryConfigRepository) FindByCode(ctx context.Context, code string) (*model.CountryConfig, error) {
	var cfg model.CountryConfig
	if err := getDB(ctx, r.db).First(&cfg, "country_code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *gormCountryConfigRepository) Create(ctx context.Context, cfg *model.CountryConfig) error {
	cfg.CountryCode = strings.ToUpper(strings.TrimSpace(cfg.CountryCode))
	cfg.Normalize()
	return runInTx(ctx, r.db, func(txCtx context.Context) error {
		var last int
		if err := getDB(txCtx, r.db).Model(&model.CountryConfig{}).Select("COALESCE(MAX(position), -1)").Scan(&last).Error; err != nil {
			return err
		}
		cfg.Position = last + 1

		res := getDB(txCtx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(cfg)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	})
}

// --- AI assistance log ---

type gormAIAssistanceRepository struct {
	db  *gorm.DB
	now Clock
}

func (r *gormAIAssistanceRepository) Create(ctx context.Context, req *model.AiAssistanceRequest) error {
	req.ID = uuid.New()
	req.CreatedAt = r.now()
	return getDB(ctx, r.db).Create(req).Error
}

func (r *gormAIAssistanceRepository) ListByForm(ctx context.Context, formID string) ([]model.AiAssistanceRequest, error) {
	rows := make([]model.AiAssistanceRequest, 0)
	if err := getDB(ctx, r.db).Where("form_id = ?", formID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

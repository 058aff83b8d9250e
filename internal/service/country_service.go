package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taxwizard/internal/catalog"
	"taxwizard/internal/i18n"
	"taxwizard/internal/model"
	"taxwizard/internal/repository"
)

// --- DTOs ---

type CreateCountryConfigRequest struct {
	CountryCode    string              `json:"countryCode" binding:"required,min=2,max=3"`
	CountryName    model.LocalizedText `json:"countryName" binding:"required"`
	Currency       string              `json:"currency" binding:"required,len=3"`
	CurrencySymbol string              `json:"currencySymbol" binding:"required,max=5"`
	TaxForms       []string            `json:"taxForms"`
	Deductions     []string            `json:"deductions"`
	Credits        []string            `json:"credits"`
}

// CatalogEntry is a country of the selection screen with its name resolved.
type CatalogEntry struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Currency       string   `json:"currency"`
	CurrencySymbol string   `json:"currencySymbol"`
	FlagEmoji      string   `json:"flagEmoji"`
	TaxForms       []string `json:"taxForms"`
}

// --- Interface ---

type CountryService interface {
	ListConfigs(ctx context.Context) ([]model.CountryConfig, error)
	GetConfig(ctx context.Context, code string) (*model.CountryConfig, error)
	CreateConfig(ctx context.Context, req CreateCountryConfigRequest) (*model.CountryConfig, error)

	ListCatalog(lang string) []CatalogEntry
	GetCatalogEntry(code, lang string) (*CatalogEntry, error)

	Languages() []i18n.Language
	Translations(lang string) (map[string]string, error)
}

type countryService struct {
	configs repository.CountryConfigRepository
	catalog *catalog.Catalog
	text    *i18n.Table
}

func NewCountryService(configs repository.CountryConfigRepository, c *catalog.Catalog, t *i18n.Table) CountryService {
	return &countryService{configs: configs, catalog: c, text: t}
}

// --- Implementation ---

func (s *countryService) ListConfigs(ctx context.Context) ([]model.CountryConfig, error) {
	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list country configs: %w", err)
	}
	return configs, nil
}

func (s *countryService) GetConfig(ctx context.Context, code string) (*model.CountryConfig, error) {
	cfg, err := s.configs.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("failed to fetch country config: %w", err)
	}
	return cfg, nil
}

func (s *countryService) CreateConfig(ctx context.Context, req CreateCountryConfigRequest) (*model.CountryConfig, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if n := len(code); n != 2 && n != 3 {
		return nil, invalid("countryCode must be 2 or 3 characters")
	}

	cfg := &model.CountryConfig{
		CountryCode:    code,
		CountryName:    req.CountryName,
		Currency:       req.Currency,
		CurrencySymbol: req.CurrencySymbol,
		TaxForms:       req.TaxForms,
		Deductions:     req.Deductions,
		Credits:        req.Credits,
	}
	if err := s.configs.Create(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, invalid("country " + code + " already exists")
		}
		return nil, fmt.Errorf("failed to create country config: %w", err)
	}
	return cfg, nil
}

func (s *countryService) ListCatalog(lang string) []CatalogEntry {
	countries := s.catalog.Countries()
	out := make([]CatalogEntry, 0, len(countries))
	for _, c := range countries {
		out = append(out, toCatalogEntry(c, lang))
	}
	return out
}

func (s *countryService) GetCatalogEntry(code, lang string) (*CatalogEntry, error) {
	c, ok := s.catalog.Lookup(code)
	if !ok {
		return nil, ErrCountryNotFound
	}
	entry := toCatalogEntry(c, lang)
	return &entry, nil
}

func (s *countryService) Languages() []i18n.Language {
	return i18n.Languages()
}

func (s *countryService) Translations(lang string) (map[string]string, error) {
	if !i18n.IsSupported(lang) {
		return nil, invalid("unsupported language: " + lang)
	}
	return s.text.All(lang), nil
}

func toCatalogEntry(c catalog.Country, lang string) CatalogEntry {
	forms := make([]string, len(c.TaxForms))
	copy(forms, c.TaxForms)
	return CatalogEntry{
		Code:           c.Code,
		Name:           c.Name.In(lang),
		Currency:       c.Currency,
		CurrencySymbol: c.CurrencySymbol,
		FlagEmoji:      c.FlagEmoji,
		TaxForms:       forms,
	}
}

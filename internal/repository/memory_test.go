package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taxwizard/internal/catalog"
	"taxwizard/internal/model"
	"taxwizard/internal/wizard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns base, base+1s, base+2s, ... on successive calls.
func stepClock(base time.Time) Clock {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := base.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	seed, err := catalog.SeedConfigs()
	require.NoError(t, err)
	return NewMemoryStore(seed, opts...)
}

func draftForm(owner string) *model.TaxForm {
	form := &model.TaxForm{
		CountryCode: "US",
		FormType:    "1040",
		TaxYear:     2024,
		FormData:    model.NewFormData("employmentIncome", "1000"),
		Status:      model.StatusDraft,
		Language:    "en",
	}
	if owner != "" {
		form.UserID = &owner
	}
	return form
}

func TestTaxForms_CreateSetsEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	form := draftForm("u1")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	assert.NotEqual(t, uuid.Nil, form.ID)
	assert.Equal(t, form.CreatedAt, form.UpdatedAt)

	got, err := store.TaxForms.FindByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "US", got.CountryCode)
	assert.Equal(t, 2024, got.TaxYear)
	assert.Equal(t, []string{"employmentIncome"}, got.FormData.Keys())
}

func TestTaxForms_UpdateRefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(t, WithClock(stepClock(base)))

	form := draftForm("u1")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	prev := form.UpdatedAt
	for i := 0; i < 3; i++ {
		updated, err := store.TaxForms.Update(ctx, form.ID, func(f *model.TaxForm) error {
			f.FormData.Set("otherIncome", model.StringValue("5"))
			return nil
		})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(prev))
		assert.Equal(t, form.CreatedAt, updated.CreatedAt)
		prev = updated.UpdatedAt
	}
}

func TestTaxForms_UpdateNeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := newTestStore(t, WithClock(clock))

	form := draftForm("")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	now = now.Add(-time.Hour)
	updated, err := store.TaxForms.Update(ctx, form.ID, func(*model.TaxForm) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, form.UpdatedAt, updated.UpdatedAt)
}

func TestTaxForms_UpdateCannotChangeIdentity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	form := draftForm("u1")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	updated, err := store.TaxForms.Update(ctx, form.ID, func(f *model.TaxForm) error {
		f.ID = uuid.New()
		f.CreatedAt = time.Time{}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, form.ID, updated.ID)
	assert.Equal(t, form.CreatedAt, updated.CreatedAt)
}

func TestTaxForms_UpdateMissingCreatesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	called := false
	_, err := store.TaxForms.Update(ctx, uuid.New(), func(*model.TaxForm) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)

	total, err := store.TaxForms.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTaxForms_MutateErrorAborts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	form := draftForm("u1")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	boom := errors.New("boom")
	_, err := store.TaxForms.Update(ctx, form.ID, func(f *model.TaxForm) error {
		f.Status = model.StatusSubmitted
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.TaxForms.FindByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, got.Status)
}

func TestTaxForms_SecondDeleteReturnsFalse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	form := draftForm("u1")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	existed, err := store.TaxForms.Delete(ctx, form.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.TaxForms.Delete(ctx, form.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = store.TaxForms.FindByID(ctx, form.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaxForms_ListByOwnerInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var want []uuid.UUID
	for i := 0; i < 4; i++ {
		mine := draftForm("alice")
		require.NoError(t, store.TaxForms.Create(ctx, mine))
		want = append(want, mine.ID)
		require.NoError(t, store.TaxForms.Create(ctx, draftForm("bob")))
	}
	require.NoError(t, store.TaxForms.Create(ctx, draftForm("")))

	forms, err := store.TaxForms.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	got := make([]uuid.UUID, 0, len(forms))
	for _, f := range forms {
		got = append(got, f.ID)
	}
	assert.Equal(t, want, got)

	none, err := store.TaxForms.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTaxForms_ReturnedCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	form := draftForm("u1")
	require.NoError(t, store.TaxForms.Create(ctx, form))

	form.FormData.Set("employmentIncome", model.StringValue("999"))
	got, err := store.TaxForms.FindByID(ctx, form.ID)
	require.NoError(t, err)
	v, _ := got.FormData.Get("employmentIncome")
	assert.Equal(t, "1000", v.String())
}

func TestTaxForms_ConcurrentUpdatesLoseNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	form := draftForm("u1")
	form.FormData = model.FormData{}
	require.NoError(t, store.TaxForms.Create(ctx, form))

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := store.TaxForms.Update(ctx, form.ID, func(f *model.TaxForm) error {
				f.FormData.Set(uuid.NewString(), model.NumberValue(decimal.NewFromInt(int64(i))))
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.TaxForms.FindByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.FormData.Len())
}

func TestCountries_SeedOrderAndLookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	configs, err := store.Countries.List(ctx)
	require.NoError(t, err)
	codes := make([]string, 0, len(configs))
	for _, c := range configs {
		codes = append(codes, c.CountryCode)
	}
	assert.Equal(t, []string{"US", "GB", "CA"}, codes)

	gb, err := store.Countries.FindByCode(ctx, "gb")
	require.NoError(t, err)
	assert.Equal(t, "GB", gb.ID)
	assert.NotNil(t, gb.Credits)
	assert.Empty(t, gb.Credits)

	_, err = store.Countries.FindByCode(ctx, "ZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountries_Create(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Countries.Create(ctx, &model.CountryConfig{
		CountryCode:    "nz",
		CountryName:    model.LocalizedText{"en": "New Zealand"},
		Currency:       "NZD",
		CurrencySymbol: "$",
	}))

	nz, err := store.Countries.FindByCode(ctx, "NZ")
	require.NoError(t, err)
	assert.Equal(t, "New Zealand", nz.CountryName.In("fr"))
	assert.NotNil(t, nz.TaxForms)

	configs, err := store.Countries.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NZ", configs[len(configs)-1].CountryCode)
}

func TestCountries_CreateNeverReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Countries.Create(ctx, &model.CountryConfig{
		CountryCode:    " us",
		CountryName:    model.LocalizedText{"en": "Hijacked"},
		Currency:       "XXX",
		CurrencySymbol: "X",
	})
	assert.ErrorIs(t, err, ErrConflict)

	us, err := store.Countries.FindByCode(ctx, "US")
	require.NoError(t, err)
	assert.Equal(t, "USD", us.Currency)
	assert.Equal(t, "United States", us.CountryName.In("en"))

	configs, err := store.Countries.List(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 3)
}

func TestCountries_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Countries.Create(ctx, &model.CountryConfig{CountryCode: "NZ", Currency: "NZD", CurrencySymbol: "$"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 19, conflicts)
}

func TestAIAssistance_ListByFormInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(t, WithClock(stepClock(base)))

	for _, q := range []string{"first", "second", "third"} {
		answer := "re: " + q
		require.NoError(t, store.AIAssistance.Create(ctx, &model.AiAssistanceRequest{
			FormID:   "form-1",
			Question: q,
			Response: &answer,
			Language: "en",
		}))
		require.NoError(t, store.AIAssistance.Create(ctx, &model.AiAssistanceRequest{
			FormID:   "form-2",
			Question: q,
			Language: "en",
		}))
	}

	rows, err := store.AIAssistance.ListByForm(ctx, "form-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Question)
	assert.Equal(t, "third", rows[2].Question)
	assert.Equal(t, "re: second", *rows[1].Response)
	assert.True(t, rows[1].CreatedAt.After(rows[0].CreatedAt))

	empty, err := store.AIAssistance.ListByForm(ctx, "nope")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSessions_Lifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := NewMemorySessionRepository()

	s := wizard.NewSession("", "anonymous", "es", time.Now())
	require.NoError(t, sessions.Create(ctx, s))
	require.NotEmpty(t, s.ID)

	updated, err := sessions.Update(ctx, s.ID, func(s *wizard.Session) error {
		s.SetFieldValue("firstName", model.StringValue("Ada"))
		s.ID = "hijacked"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, s.ID, updated.ID)

	got, err := sessions.FindByID(ctx, s.ID)
	require.NoError(t, err)
	v, ok := got.Values.Get("firstName")
	require.True(t, ok)
	assert.Equal(t, "Ada", v.String())

	existed, err := sessions.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = sessions.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = sessions.Update(ctx, s.ID, func(*wizard.Session) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

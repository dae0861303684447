package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// fakePrefRepo is an in-memory UserPreferenceRepository.
type fakePrefRepo struct {
	mu        sync.Mutex
	prefs     map[string]*entities.UserPreference
	getErr    error
	createErr error
	creates   int
}

func newFakePrefRepo(prefs ...*entities.UserPreference) *fakePrefRepo {
	r := &fakePrefRepo{prefs: map[string]*entities.UserPreference{}}
	for _, p := range prefs {
		r.prefs[p.UserID] = p
	}
	return r
}

func (r *fakePrefRepo) GetByUserID(ctx context.Context, userID string) (*entities.UserPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.prefs[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user preference not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakePrefRepo) Create(ctx context.Context, pref *entities.UserPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.prefs[pref.UserID]; ok {
		return apperrors.NewConflictError("user preference already exists")
	}
	cp := *pref
	r.prefs[pref.UserID] = &cp
	return nil
}

func (r *fakePrefRepo) Upsert(ctx context.Context, pref *entities.UserPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *pref
	r.prefs[pref.UserID] = &cp
	return nil
}

// fakeCountryRepo serves the seeded countries.
type fakeCountryRepo struct {
	countries []*entities.Country
	err       error
}

func seededCountries() *fakeCountryRepo {
	return &fakeCountryRepo{countries: []*entities.Country{
		{ID: 1, Name: "Croatia", Currency: "EUR"},
		{ID: 2, Name: "Germany", Currency: "EUR"},
		{ID: 3, Name: "United States", Currency: "USD"},
		{ID: 4, Name: "United Kingdom", Currency: "GBP"},
	}}
}

func (r *fakeCountryRepo) GetByID(ctx context.Context, id int) (*entities.Country, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.countries {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("country not found")
}

func (r *fakeCountryRepo) GetByName(ctx context.Context, name string) (*entities.Country, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.countries {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("country not found")
}

func (r *fakeCountryRepo) First(ctx context.Context) (*entities.Country, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.countries) == 0 {
		return nil, apperrors.NewNotFoundError("no countries configured")
	}
	first := r.countries[0]
	for _, c := range r.countries {
		if c.ID < first.ID {
			first = c
		}
	}
	return first, nil
}

func (r *fakeCountryRepo) List(ctx context.Context) ([]*entities.Country, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := append([]*entities.Country(nil), r.countries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeStoreRepo serves the seeded stores.
type fakeStoreRepo struct {
	stores []*entities.Store
	err    error
}

func seededStores() *fakeStoreRepo {
	return &fakeStoreRepo{stores: []*entities.Store{
		{ID: 1, Name: "Amazon", CountryID: 3, ProviderType: "affiliate", IsActive: true},
		{ID: 2, Name: "Zalando", CountryID: 2, ProviderType: "affiliate", IsActive: true},
		{ID: 3, Name: "Hervis", CountryID: 1, ProviderType: "scraping", IsActive: true},
	}}
}

func (r *fakeStoreRepo) FirstByCountry(ctx context.Context, countryID int) (*entities.Store, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.stores {
		if s.CountryID == countryID {
			return s, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no store for country")
}

func (r *fakeStoreRepo) ListActiveByCountry(ctx context.Context, countryID int) ([]*entities.Store, error) {
	var out []*entities.Store
	for _, s := range r.stores {
		if s.CountryID == countryID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

// memCacheRepo is an in-memory SearchCacheRepository.
type memCacheRepo struct {
	mu        sync.Mutex
	entries   []*entities.SearchCacheEntry
	nextID    int64
	findErr   error
	createErr error
	deleted   []int64
}

func (r *memCacheRepo) FindValid(ctx context.Context, key repositories.SearchCacheKey, now time.Time) (*entities.SearchCacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var best *entities.SearchCacheEntry
	for _, e := range r.entries {
		if e.Query != key.Query || e.Category != key.Category || e.CountryID != key.CountryID || !e.IsValidAt(now) {
			continue
		}
		if best == nil || !e.CreatedAt.Before(best.CreatedAt) {
			best = e
		}
	}
	if best == nil {
		return nil, apperrors.NewNotFoundError("search cache entry not found")
	}
	cp := *best
	return &cp, nil
}

func (r *memCacheRepo) Create(ctx context.Context, entry *entities.SearchCacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	entry.ID = r.nextID
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memCacheRepo) Delete(ctx context.Context, entry *entities.SearchCacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, entry.ID)
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ID != entry.ID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *memCacheRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.IsValidAt(now) {
			kept = append(kept, e)
			continue
		}
		n++
	}
	r.entries = kept
	return n, nil
}

func (r *memCacheRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// mockAnalyticsRepo is a testify mock of SearchAnalyticsRepository.
type mockAnalyticsRepo struct {
	mock.Mock
}

func (m *mockAnalyticsRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockAnalyticsRepo) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]*entities.SearchEvent)
	return events, args.Error(1)
}

// recordingAnalytics captures tracked events synchronously.
type recordingAnalytics struct {
	mu     sync.Mutex
	events []*entities.SearchEvent
}

func (r *recordingAnalytics) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAnalytics) all() []*entities.SearchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entities.SearchEvent(nil), r.events...)
}

// fakeProvider is a scriptable StoreProvider.
type fakeProvider struct {
	providerType string
	name         string
	countries    []int
	products     []entities.Product
	err          error
	panicWith    any
	delay        time.Duration
	// block, when set, is waited on regardless of ctx.
	block chan struct{}
	calls atomic.Int32
}

func (p *fakeProvider) ProviderType() string { return p.providerType }
func (p *fakeProvider) Name() string         { return p.name }

func (p *fakeProvider) SupportsCountry(countryID int) bool {
	for _, c := range p.countries {
		if c == countryID {
			return true
		}
	}
	return false
}

func (p *fakeProvider) Search(ctx context.Context, query string, pref *entities.UserPreference, category string) ([]entities.Product, error) {
	p.calls.Add(1)
	if p.block != nil {
		<-p.block
	}
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay):
		}
	}
	if p.panicWith != nil {
		panic(p.panicWith)
	}
	if p.err != nil {
		return nil, p.err
	}
	return append([]entities.Product(nil), p.products...), nil
}

func product(name, store, category, price string) entities.Product {
	return entities.Product{
		Name:      name,
		Brand:     "Nike",
		Price:     decimal.RequireFromString(price),
		Currency:  "EUR",
		StoreName: store,
		Category:  category,
		Sizes:     []string{"M", "42"},
		InStock:   true,
	}
}

var errUpstream = errors.New("upstream returned 503")

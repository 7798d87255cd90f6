package preference

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"marketSearch/domain"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakePreferenceRepo struct {
	mu       sync.Mutex
	profiles map[uint]*domain.PreferenceProfile
	saveErr  error
	getErr   error
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{profiles: make(map[uint]*domain.PreferenceProfile)}
}

func (f *fakePreferenceRepo) GetProfile(_ context.Context, userID uint) (*domain.PreferenceProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.profiles[userID], nil
}

func (f *fakePreferenceRepo) SaveProfile(_ context.Context, profile *domain.PreferenceProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakePreferenceRepo) Exists(_ context.Context, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.profiles[userID]
	return ok, nil
}

func (f *fakePreferenceRepo) DeleteProfile(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	return nil
}

func (f *fakePreferenceRepo) ScrollProfiles(_ context.Context, offset, limit int) ([]*domain.PreferenceProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.PreferenceProfile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

type fakeEventRepo struct {
	events []domain.InteractionEvent
}

func (f *fakeEventRepo) SaveEvent(_ context.Context, event domain.InteractionEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeSessionRepo struct {
	states map[string]*domain.SessionState
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{states: make(map[string]*domain.SessionState)}
}

func (f *fakeSessionRepo) GetSession(_ context.Context, sessionID string) (*domain.SessionState, error) {
	return f.states[sessionID], nil
}

func (f *fakeSessionRepo) AppendInteraction(_ context.Context, sessionID string, interaction domain.SessionInteraction) error {
	state, ok := f.states[sessionID]
	if !ok {
		state = domain.NewSessionState(sessionID, interaction.Timestamp)
		f.states[sessionID] = state
	}
	state.Interactions = append(state.Interactions, interaction)
	return nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, sessionID string) error {
	delete(f.states, sessionID)
	return nil
}

func newTestService(repo *fakePreferenceRepo) *Service {
	return NewService(repo, &fakeEventRepo{}, newFakeSessionRepo(), nil, DefaultConfig())
}

// ---- tests ----

func TestRecordSearch_FreshUser(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 7,
		Type:   domain.InteractionSearch,
		Payload: map[string]any{
			"query": "gaming laptop",
		},
	})
	require.True(t, ok)

	profile := repo.profiles[7]
	require.NotNil(t, profile)
	require.Len(t, profile.RecentSearches, 1)
	assert.Equal(t, "gaming laptop", profile.RecentSearches[0].Query)
	assert.Empty(t, profile.Categories)
	assert.Empty(t, profile.Brands)
}

func TestRecordSearch_WithCategoryContext(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 7,
		Type:   domain.InteractionSearch,
		Payload: map[string]any{
			"query":    "trail runners",
			"category": "running shoes",
			"brand":    "asics",
		},
	})

	profile := repo.profiles[7]
	require.NotNil(t, profile)
	assert.InDelta(t, 0.2, profile.Categories["running shoes"], 1e-9)
	assert.InDelta(t, 0.2, profile.Brands["asics"], 1e-9)
}

func TestRecordSearch_EmptyQueryRejected(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  7,
		Type:    domain.InteractionSearch,
		Payload: map[string]any{"category": "laptops"},
	})

	assert.False(t, ok)
	assert.Nil(t, repo.profiles[7])
}

func TestRecordProductViews_Accumulate(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	for i := 0; i < 5; i++ {
		svc.RecordInteraction(context.Background(), domain.InteractionEvent{
			UserID: 3,
			Type:   domain.InteractionViewProduct,
			Payload: map[string]any{
				"product_id": fmt.Sprintf("p-%d", i),
				"categories": []any{"gaming"},
			},
		})
	}

	profile := repo.profiles[3]
	require.NotNil(t, profile)
	assert.InDelta(t, 0.5, profile.Categories["gaming"], 1e-9)
	assert.Len(t, profile.RecentlyViewed, 5)
}

func TestRecordPurchase_WeightsAndHistory(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 3,
		Type:   domain.InteractionPurchase,
		Payload: map[string]any{
			"product_id": "p-42",
			"categories": []any{"laptops"},
			"brand":      "lenovo",
			"price":      799.0,
		},
	})

	profile := repo.profiles[3]
	require.NotNil(t, profile)
	assert.InDelta(t, 0.5, profile.Categories["laptops"], 1e-9)
	assert.InDelta(t, 0.5, profile.Brands["lenovo"], 1e-9)
	require.Len(t, profile.PurchaseHistory, 1)
	assert.Equal(t, "p-42", profile.PurchaseHistory[0].ProductID)

	require.Len(t, profile.PriceRanges, 1)
	assert.Equal(t, 500.0, profile.PriceRanges[0].MinPrice)
	assert.Equal(t, -1.0, profile.PriceRanges[0].MaxPrice)
}

func TestRecordView_NoProductID_WeightsStillApply(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 3,
		Type:   domain.InteractionViewProduct,
		Payload: map[string]any{
			"categories": []any{"headphones"},
		},
	})

	require.True(t, ok)
	profile := repo.profiles[3]
	assert.InDelta(t, 0.1, profile.Categories["headphones"], 1e-9)
	assert.Empty(t, profile.RecentlyViewed)
}

func TestRecentlyViewed_DedupeMovesToFront(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	for _, id := range []string{"a", "b", "c", "a"} {
		svc.RecordInteraction(context.Background(), domain.InteractionEvent{
			UserID:  5,
			Type:    domain.InteractionViewProduct,
			Payload: map[string]any{"product_id": id},
		})
	}

	profile := repo.profiles[5]
	require.NotNil(t, profile)
	require.Len(t, profile.RecentlyViewed, 3)
	assert.Equal(t, "a", profile.RecentlyViewed[0].ProductID)
	assert.Equal(t, "c", profile.RecentlyViewed[1].ProductID)
	assert.Equal(t, "b", profile.RecentlyViewed[2].ProductID)
}

func TestRecentSearches_Capped(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	for i := 0; i < 15; i++ {
		svc.RecordInteraction(context.Background(), domain.InteractionEvent{
			UserID:  5,
			Type:    domain.InteractionSearch,
			Payload: map[string]any{"query": fmt.Sprintf("query %d", i)},
		})
	}

	profile := repo.profiles[5]
	require.Len(t, profile.RecentSearches, 10)
	assert.Equal(t, "query 14", profile.RecentSearches[0].Query)
}

func TestPriceRanges_SortedAndCapped(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	// hit the 0-25 band three times, the 100-200 band once
	for _, price := range []float64{10, 12, 20, 150} {
		svc.RecordInteraction(context.Background(), domain.InteractionEvent{
			UserID:  9,
			Type:    domain.InteractionViewProduct,
			Payload: map[string]any{"product_id": "x", "price": price},
		})
	}
	// touch every other band so the cap kicks in
	for _, price := range []float64{30, 60, 250, 600} {
		svc.RecordInteraction(context.Background(), domain.InteractionEvent{
			UserID:  9,
			Type:    domain.InteractionViewProduct,
			Payload: map[string]any{"product_id": "x", "price": price},
		})
	}

	profile := repo.profiles[9]
	require.Len(t, profile.PriceRanges, 5)
	assert.Equal(t, 0.0, profile.PriceRanges[0].MinPrice)
	assert.Equal(t, 25.0, profile.PriceRanges[0].MaxPrice)
	for i := 1; i < len(profile.PriceRanges); i++ {
		assert.GreaterOrEqual(t, profile.PriceRanges[i-1].Weight, profile.PriceRanges[i].Weight)
	}
}

func TestRecordClickCategory(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  2,
		Type:    domain.InteractionClickCategory,
		Payload: map[string]any{"target": "monitors"},
	})
	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  2,
		Type:    domain.InteractionClickBrand,
		Payload: map[string]any{"target": "dell"},
	})

	profile := repo.profiles[2]
	assert.InDelta(t, 0.25, profile.Categories["monitors"], 1e-9)
	assert.InDelta(t, 0.25, profile.Brands["dell"], 1e-9)
}

func TestRecordFilter_RoutesByDimension(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 2,
		Type:   domain.InteractionFilterApply,
		Payload: map[string]any{
			"filters": map[string]any{
				"category": "cameras",
				"brand":    "canon",
				"color":    "black",
			},
		},
	})

	profile := repo.profiles[2]
	assert.InDelta(t, 0.15, profile.Categories["cameras"], 1e-9)
	assert.InDelta(t, 0.15, profile.Brands["canon"], 1e-9)
	assert.InDelta(t, 0.15, profile.Values["black"], 1e-9)
}

func TestRecordImpression_LoggedButNoProfileWrite(t *testing.T) {
	repo := newFakePreferenceRepo()
	events := &fakeEventRepo{}
	svc := NewService(repo, events, newFakeSessionRepo(), nil, DefaultConfig())

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  2,
		Type:    domain.InteractionImpression,
		Payload: map[string]any{"product_ids": []any{"a", "b"}},
	})

	assert.False(t, ok)
	assert.Nil(t, repo.profiles[2])
	assert.Len(t, events.events, 1)
}

func TestRecordMalformedPayload_SkipsOnlyBrokenPart(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	// categories is the wrong shape; the whole product payload fails to
	// decode, so nothing applies and the call reports skipped
	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 4,
		Type:   domain.InteractionViewProduct,
		Payload: map[string]any{
			"product_id": "p-1",
			"categories": "not-a-list",
		},
	})
	assert.False(t, ok)

	// a following well-formed event still lands
	ok = svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  4,
		Type:    domain.InteractionViewProduct,
		Payload: map[string]any{"product_id": "p-2"},
	})
	assert.True(t, ok)
	require.NotNil(t, repo.profiles[4])
	assert.Len(t, repo.profiles[4].RecentlyViewed, 1)
}

func TestRecordMissingEventType(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{UserID: 4})
	assert.False(t, ok)
}

func TestAnonymousSession_OnlySessionAppend(t *testing.T) {
	repo := newFakePreferenceRepo()
	sessions := newFakeSessionRepo()
	svc := NewService(repo, &fakeEventRepo{}, sessions, nil, DefaultConfig())

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		SessionID: "s-1",
		Type:      domain.InteractionSearch,
		Payload:   map[string]any{"query": "usb hub"},
		Timestamp: time.Now(),
	})

	assert.True(t, ok)
	assert.Empty(t, repo.profiles)
	require.NotNil(t, sessions.states["s-1"])
	assert.Len(t, sessions.states["s-1"].Interactions, 1)
}

func TestSaveFailure_NeverPropagates(t *testing.T) {
	repo := newFakePreferenceRepo()
	repo.saveErr = fmt.Errorf("connection refused")
	svc := newTestService(repo)

	ok := svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  6,
		Type:    domain.InteractionSearch,
		Payload: map[string]any{"query": "ssd"},
	})

	assert.False(t, ok)
}

func TestGetUserPreferences_LazyEmptyProfile(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	profile := svc.GetUserPreferences(context.Background(), 99)
	require.NotNil(t, profile)
	assert.Equal(t, uint(99), profile.UserID)
	assert.Empty(t, profile.Categories)

	// a plain read never persists anything
	assert.Empty(t, repo.profiles)
}

func TestGetUserPreferences_StorageFailureServesEmpty(t *testing.T) {
	repo := newFakePreferenceRepo()
	repo.getErr = fmt.Errorf("timeout")
	svc := newTestService(repo)

	profile := svc.GetUserPreferences(context.Background(), 99)
	require.NotNil(t, profile)
	assert.Empty(t, profile.Categories)
}

func TestClearUserPreferences(t *testing.T) {
	repo := newFakePreferenceRepo()
	svc := newTestService(repo)

	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID:  8,
		Type:    domain.InteractionSearch,
		Payload: map[string]any{"query": "desk"},
	})
	require.NotNil(t, repo.profiles[8])

	require.NoError(t, svc.ClearUserPreferences(context.Background(), 8))
	assert.Nil(t, repo.profiles[8])
}

func TestGetUserPreferences_ReturnsIndependentCopies(t *testing.T) {
	repo := newFakePreferenceRepo()
	cache := gocache.New(time.Minute, 0)
	svc := NewService(repo, &fakeEventRepo{}, newFakeSessionRepo(), cache, DefaultConfig())

	svc.RecordInteraction(context.Background(), domain.InteractionEvent{
		UserID: 3,
		Type:   domain.InteractionViewProduct,
		Payload: map[string]any{
			"product_id": "p-1",
			"categories": []any{"laptops"},
		},
	})

	first := svc.GetUserPreferences(context.Background(), 3)
	first.Categories["tampered"] = 9.9
	first.PriceRanges = append(first.PriceRanges, domain.PriceRangeWeight{MinPrice: 0, MaxPrice: 25, Weight: 1})

	second := svc.GetUserPreferences(context.Background(), 3)
	assert.NotContains(t, second.Categories, "tampered")
	assert.Empty(t, second.PriceRanges)
	assert.InDelta(t, 0.1, second.Categories["laptops"], 1e-9)
}

func TestRecordInteraction_ConcurrentWithReaders(t *testing.T) {
	repo := newFakePreferenceRepo()
	cache := gocache.New(time.Minute, 0)
	svc := NewService(repo, &fakeEventRepo{}, newFakeSessionRepo(), cache, DefaultConfig())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			svc.RecordInteraction(context.Background(), domain.InteractionEvent{
				UserID: 1,
				Type:   domain.InteractionViewProduct,
				Payload: map[string]any{
					"product_id": fmt.Sprintf("p-%d", i),
					"categories": []any{"laptops", "gaming"},
					"brand":      "acme",
				},
			})
		}
	}()

	for open := true; open; {
		select {
		case <-done:
			open = false
		default:
		}
		profile := svc.GetUserPreferences(context.Background(), 1)
		total := 0.0
		for _, w := range profile.Categories {
			total += w
		}
		for _, w := range profile.Brands {
			total += w
		}
		assert.GreaterOrEqual(t, total, 0.0)
	}

	final := svc.GetUserPreferences(context.Background(), 1)
	assert.InDelta(t, 30.0, final.Categories["laptops"], 1e-6)
	assert.Len(t, final.RecentlyViewed, 20)
}

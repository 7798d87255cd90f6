package experiment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"marketSearch/domain"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeExperimentRepo struct {
	defs    map[string]*domain.ExperimentDefinition
	err     error
	queries int
}

func newFakeExperimentRepo(defs ...*domain.ExperimentDefinition) *fakeExperimentRepo {
	m := make(map[string]*domain.ExperimentDefinition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &fakeExperimentRepo{defs: m}
}

func (f *fakeExperimentRepo) GetExperiment(_ context.Context, id string) (*domain.ExperimentDefinition, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.defs[id], nil
}

func (f *fakeExperimentRepo) ListActive(_ context.Context) ([]domain.ExperimentDefinition, error) {
	var out []domain.ExperimentDefinition
	for _, d := range f.defs {
		if d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeExperimentRepo) UpsertExperiment(_ context.Context, def domain.ExperimentDefinition) error {
	f.defs[def.ID] = &def
	return nil
}

type fakeSink struct {
	tracked chan string
}

func (f *fakeSink) TrackAssignment(_ context.Context, _ uint, experimentID, variantID, _ string) {
	if f.tracked != nil {
		f.tracked <- experimentID + "/" + variantID
	}
}

func activeExperiment(id string, variants ...domain.ExperimentVariant) *domain.ExperimentDefinition {
	return &domain.ExperimentDefinition{
		ID:        id,
		Name:      id,
		StartDate: time.Now().Add(-time.Hour),
		IsActive:  true,
		Variants:  variants,
	}
}

func fiftyFifty(id string) *domain.ExperimentDefinition {
	return activeExperiment(id,
		domain.ExperimentVariant{ID: "control", Algorithm: "standard", Weight: 50},
		domain.ExperimentVariant{ID: "treatment", Algorithm: "preference", Weight: 50},
	)
}

// ---- hash ----

func TestBucketHash_Deterministic(t *testing.T) {
	a := bucketHash("42-ranking-v2")
	b := bucketHash("42-ranking-v2")
	assert.Equal(t, a, b)
}

func TestBucketHash_NonNegative(t *testing.T) {
	for i := 0; i < 10000; i++ {
		h := bucketHash(fmt.Sprintf("%d-exp", i))
		assert.GreaterOrEqual(t, h, 0)
	}
}

func TestBucketHash_SpreadsAcrossBuckets(t *testing.T) {
	counts := make(map[int]int)
	for i := 0; i < 10000; i++ {
		counts[bucketHash(fmt.Sprintf("%d-exp", i))%100]++
	}
	// every bucket should see traffic; a uniform split gives 100 per bucket
	for b := 0; b < 100; b++ {
		assert.Greater(t, counts[b], 0, "bucket %d starved", b)
	}
}

// ---- assignment ----

func TestAssign_Deterministic(t *testing.T) {
	repo := newFakeExperimentRepo(fiftyFifty("ranking-v2"))
	svc := NewService(repo, nil, nil)

	first := svc.Assign(context.Background(), "ranking-v2", 42, "")
	for i := 0; i < 20; i++ {
		again := svc.Assign(context.Background(), "ranking-v2", 42, "")
		assert.Equal(t, first.VariantID, again.VariantID)
	}
}

func TestAssign_FiftyFiftySplit(t *testing.T) {
	repo := newFakeExperimentRepo(fiftyFifty("ranking-v2"))
	svc := NewService(repo, nil, nil)

	counts := make(map[string]int)
	for i := 1; i <= 1000; i++ {
		a := svc.Assign(context.Background(), "ranking-v2", uint(i), "")
		counts[a.VariantID]++
	}

	t.Logf("split: %v", counts)
	assert.InDelta(t, 500, counts["control"], 50, "control share outside 45-55%%")
	assert.InDelta(t, 500, counts["treatment"], 50, "treatment share outside 45-55%%")
}

func TestAssign_WeightedWalk(t *testing.T) {
	repo := newFakeExperimentRepo(activeExperiment("skew",
		domain.ExperimentVariant{ID: "a", Algorithm: "standard", Weight: 90},
		domain.ExperimentVariant{ID: "b", Algorithm: "recency", Weight: 10},
	))
	svc := NewService(repo, nil, nil)

	counts := make(map[string]int)
	for i := 1; i <= 2000; i++ {
		a := svc.Assign(context.Background(), "skew", uint(i), "")
		counts[a.VariantID]++
	}

	assert.Greater(t, counts["a"], counts["b"]*4, "90/10 split not respected: %v", counts)
}

func TestAssign_Memoized(t *testing.T) {
	repo := newFakeExperimentRepo(fiftyFifty("ranking-v2"))
	memo := gocache.New(time.Hour, time.Hour)
	svc := NewService(repo, nil, memo)

	svc.Assign(context.Background(), "ranking-v2", 42, "")
	svc.Assign(context.Background(), "ranking-v2", 42, "")
	svc.Assign(context.Background(), "ranking-v2", 42, "")

	assert.Equal(t, 1, repo.queries)
}

func TestAssign_MissingExperimentFallsBack(t *testing.T) {
	repo := newFakeExperimentRepo()
	svc := NewService(repo, nil, gocache.New(time.Hour, time.Hour))

	a := svc.Assign(context.Background(), "nope", 42, "")
	assert.Equal(t, FallbackAlgorithm, a.Algorithm)
	assert.Empty(t, a.VariantID)

	// fallbacks are not memoized: a later fixed definition must take effect
	repo.defs["nope"] = fiftyFifty("nope")
	b := svc.Assign(context.Background(), "nope", 42, "")
	assert.NotEmpty(t, b.VariantID)
}

func TestAssign_InactiveServesFirstVariant(t *testing.T) {
	def := fiftyFifty("paused")
	def.IsActive = false
	svc := NewService(newFakeExperimentRepo(def), nil, nil)

	a := svc.Assign(context.Background(), "paused", 42, "")
	assert.Equal(t, "control", a.VariantID)
}

func TestAssign_ExpiredServesFirstVariant(t *testing.T) {
	def := fiftyFifty("ended")
	past := time.Now().Add(-time.Minute)
	def.EndDate = &past
	svc := NewService(newFakeExperimentRepo(def), nil, nil)

	a := svc.Assign(context.Background(), "ended", 42, "")
	assert.Equal(t, "control", a.VariantID)
}

func TestAssign_RepoErrorFallsBack(t *testing.T) {
	repo := newFakeExperimentRepo()
	repo.err = fmt.Errorf("db unreachable")
	svc := NewService(repo, nil, nil)

	a := svc.Assign(context.Background(), "ranking-v2", 42, "")
	assert.Equal(t, FallbackAlgorithm, a.Algorithm)
}

func TestAssign_ZeroWeightsUseDefaultModulus(t *testing.T) {
	def := activeExperiment("unweighted",
		domain.ExperimentVariant{ID: "only", Algorithm: "hybrid", Weight: 0},
	)
	svc := NewService(newFakeExperimentRepo(def), nil, nil)

	a := svc.Assign(context.Background(), "unweighted", 42, "")
	assert.Equal(t, "only", a.VariantID)
	assert.Equal(t, "hybrid", a.Algorithm)
}

func TestAssign_FiresAnalytics(t *testing.T) {
	sink := &fakeSink{tracked: make(chan string, 1)}
	svc := NewService(newFakeExperimentRepo(fiftyFifty("ranking-v2")), sink, nil)

	svc.Assign(context.Background(), "ranking-v2", 42, "web-abc")

	select {
	case got := <-sink.tracked:
		assert.Contains(t, got, "ranking-v2/")
	case <-time.After(time.Second):
		t.Fatal("analytics impression never arrived")
	}
}

func TestClearAssignments(t *testing.T) {
	repo := newFakeExperimentRepo(fiftyFifty("ranking-v2"))
	memo := gocache.New(time.Hour, time.Hour)
	svc := NewService(repo, nil, memo)

	svc.Assign(context.Background(), "ranking-v2", 42, "")
	svc.ClearAssignments()
	svc.Assign(context.Background(), "ranking-v2", 42, "")

	assert.Equal(t, 2, repo.queries)
}

func TestUpsertExperiment_RequiresID(t *testing.T) {
	svc := NewService(newFakeExperimentRepo(), nil, nil)
	err := svc.UpsertExperiment(context.Background(), domain.ExperimentDefinition{})
	require.Error(t, err)
}

func TestListActiveExperiments_FiltersInactive(t *testing.T) {
	inactive := fiftyFifty("retired")
	inactive.IsActive = false
	svc := NewService(newFakeExperimentRepo(fiftyFifty("ranking-v2"), inactive), nil, nil)

	defs, err := svc.ListActiveExperiments(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "ranking-v2", defs[0].ID)
}

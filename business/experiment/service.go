package experiment

import (
	"context"
	"fmt"
	"time"

	"marketSearch/domain"
	"marketSearch/pkg/logger"
	"marketSearch/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
)

// ---- Repository interfaces ----

type ExperimentRepository interface {
	// GetExperiment returns (nil, nil) when the experiment does not exist.
	GetExperiment(ctx context.Context, id string) (*domain.ExperimentDefinition, error)
	ListActive(ctx context.Context) ([]domain.ExperimentDefinition, error)
	UpsertExperiment(ctx context.Context, def domain.ExperimentDefinition) error
}

// AnalyticsSink receives fire-and-forget assignment impressions. Failures
// are swallowed by the implementation and never reach callers.
type AnalyticsSink interface {
	TrackAssignment(ctx context.Context, userID uint, experimentID, variantID, clientID string)
}

// FallbackAlgorithm is the neutral scoring profile used when an experiment
// cannot be resolved.
const FallbackAlgorithm = "standard"

// ---- Service ----

// Service buckets (user, experiment) pairs into weighted variants via a
// stable hash. Assignments are memoized in-process only; reassignment after
// restart is accepted nondeterminism.
type Service struct {
	repo ExperimentRepository
	sink AnalyticsSink
	memo *gocache.Cache
}

func NewService(repo ExperimentRepository, sink AnalyticsSink, memo *gocache.Cache) *Service {
	return &Service{
		repo: repo,
		sink: sink,
		memo: memo,
	}
}

func assignmentKey(userID uint, experimentID string) string {
	return fmt.Sprintf("%d:%s", userID, experimentID)
}

// Assign resolves the variant for a (user, experiment) pair. Pure function
// of its inputs aside from memoization: repeated calls within one process
// return the same variant for unchanged definitions. The clientID is passed
// through to analytics only; it never influences bucketing.
func (s *Service) Assign(ctx context.Context, experimentID string, userID uint, clientID string) domain.VariantAssignment {
	key := assignmentKey(userID, experimentID)
	if s.memo != nil {
		if cached, ok := s.memo.Get(key); ok {
			if a, ok := cached.(domain.VariantAssignment); ok {
				return a
			}
		}
	}

	def, err := s.repo.GetExperiment(ctx, experimentID)
	if err != nil {
		logger.Error("failed to load experiment, serving fallback", "experiment_id", experimentID, "error", err)
		return fallbackAssignment(experimentID, nil)
	}
	if def == nil || !def.Running(time.Now()) {
		return fallbackAssignment(experimentID, def)
	}

	assignment := bucketAssignment(*def, userID)

	if s.memo != nil {
		s.memo.SetDefault(key, assignment)
	}

	metrics.AssignmentsTotal.WithLabelValues(experimentID, assignment.VariantID).Inc()

	// non-blocking impression; analytics failure never reaches the caller
	if s.sink != nil {
		go s.sink.TrackAssignment(context.WithoutCancel(ctx), userID, experimentID, assignment.VariantID, clientID)
	}

	return assignment
}

// bucketAssignment hashes "{userId}-{testId}", reduces modulo the total
// declared weight (100 when no weights are declared), then walks the
// variants accumulating weight until the bucket falls in range. The first
// variant catches buckets beyond the cumulative weight.
func bucketAssignment(def domain.ExperimentDefinition, userID uint) domain.VariantAssignment {
	total := 0
	for _, v := range def.Variants {
		if v.Weight > 0 {
			total += v.Weight
		}
	}
	if total <= 0 {
		total = 100
	}

	bucket := bucketHash(fmt.Sprintf("%d-%s", userID, def.ID)) % total

	cumulative := 0
	for _, v := range def.Variants {
		cumulative += v.Weight
		if bucket < cumulative {
			return newAssignment(def.ID, v, bucket)
		}
	}

	// cumulative weight exhausted without a match
	return newAssignment(def.ID, def.Variants[0], bucket)
}

func newAssignment(experimentID string, v domain.ExperimentVariant, bucket int) domain.VariantAssignment {
	return domain.VariantAssignment{
		ExperimentID: experimentID,
		VariantID:    v.ID,
		Algorithm:    v.Algorithm,
		Params:       v.Params,
		Bucket:       bucket,
	}
}

// fallbackAssignment degrades to the first variant when the definition is
// inactive, or to the neutral algorithm when there is no definition at all.
// Fallbacks are not memoized so a fixed definition takes effect on the next
// call.
func fallbackAssignment(experimentID string, def *domain.ExperimentDefinition) domain.VariantAssignment {
	if def != nil && len(def.Variants) > 0 {
		return newAssignment(experimentID, def.Variants[0], 0)
	}
	return domain.VariantAssignment{
		ExperimentID: experimentID,
		Algorithm:    FallbackAlgorithm,
	}
}

// ClearAssignments drops all memoized assignments, forcing fresh bucketing
// on the next call. The explicit invalidation entry point for definition
// changes.
func (s *Service) ClearAssignments() {
	if s.memo != nil {
		s.memo.Flush()
	}
}

// GetExperiment, ListActiveExperiments and UpsertExperiment pass through for
// the admin surface.

func (s *Service) GetExperiment(ctx context.Context, id string) (*domain.ExperimentDefinition, error) {
	return s.repo.GetExperiment(ctx, id)
}

func (s *Service) ListActiveExperiments(ctx context.Context) ([]domain.ExperimentDefinition, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) UpsertExperiment(ctx context.Context, def domain.ExperimentDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("experiment id is required")
	}
	if err := s.repo.UpsertExperiment(ctx, def); err != nil {
		return err
	}
	// stale assignments would pin users to removed variants
	s.ClearAssignments()
	return nil
}

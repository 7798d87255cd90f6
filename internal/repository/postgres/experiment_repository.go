package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"marketSearch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExperimentRepository stores experiment definitions with the variant list
// serialized into a single jsonb column.
type ExperimentRepository struct {
	DB *gorm.DB
}

func NewExperimentRepository(db *gorm.DB) *ExperimentRepository {
	return &ExperimentRepository{DB: db}
}

func (r *ExperimentRepository) GetExperiment(ctx context.Context, id string) (*domain.ExperimentDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var def domain.ExperimentDefinition
	err := r.DB.WithContext(ctx).First(&def, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query experiment_definitions: %w", err)
	}

	if err := decodeVariants(&def); err != nil {
		return nil, err
	}

	return &def, nil
}

func (r *ExperimentRepository) ListActive(ctx context.Context) ([]domain.ExperimentDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var defs []domain.ExperimentDefinition
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active experiments: %w", err)
	}

	for i := range defs {
		if err := decodeVariants(&defs[i]); err != nil {
			return nil, err
		}
	}

	return defs, nil
}

func (r *ExperimentRepository) UpsertExperiment(ctx context.Context, def domain.ExperimentDefinition) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(def.Variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}
	def.VariantsRaw = raw

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		},
	).Create(&def).Error; err != nil {
		return fmt.Errorf("failed to upsert experiment_definitions: %w", err)
	}

	return nil
}

func decodeVariants(def *domain.ExperimentDefinition) error {
	if len(def.VariantsRaw) == 0 {
		return nil
	}
	if err := json.Unmarshal(def.VariantsRaw, &def.Variants); err != nil {
		return fmt.Errorf("failed to unmarshal variants for experiment %s: %w", def.ID, err)
	}
	return nil
}

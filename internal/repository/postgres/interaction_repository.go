package postgres

import (
	"context"
	"fmt"

	"marketSearch/domain"

	"gorm.io/gorm"
)

// InteractionRepository is the append-only event log behind RecordInteraction.
type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) SaveEvent(ctx context.Context, event domain.InteractionEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save interaction event: %w", err)
	}

	return nil
}

// RecentEvents returns the newest events for a user, most recent first.
func (r *InteractionRepository) RecentEvents(ctx context.Context, userID uint, limit int) ([]domain.InteractionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.InteractionEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query interaction_events: %w", err)
	}

	return events, nil
}

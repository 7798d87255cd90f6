package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketSearch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository persists preference profiles as one JSON blob per
// user. The profile evolves too often to justify a column per weight map.
type PreferenceRepository struct {
	DB *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

type preferenceRow struct {
	UserID      uint      `gorm:"column:user_id;primaryKey"`
	ProfileJSON []byte    `gorm:"column:profile_json"`
	LastUpdated time.Time `gorm:"column:last_updated"`
}

func (preferenceRow) TableName() string {
	return "preference_profiles"
}

func (r *PreferenceRepository) GetProfile(ctx context.Context, userID uint) (*domain.PreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row preferenceRow
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference_profiles: %w", err)
	}

	var profile domain.PreferenceProfile
	if err := json.Unmarshal(row.ProfileJSON, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile_json: %w", err)
	}

	return &profile, nil
}

func (r *PreferenceRepository) SaveProfile(ctx context.Context, profile *domain.PreferenceProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	row := preferenceRow{
		UserID:      profile.UserID,
		ProfileJSON: raw,
		LastUpdated: profile.LastUpdated,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert preference_profiles: %w", err)
	}

	return nil
}

func (r *PreferenceRepository) Exists(ctx context.Context, userID uint) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&preferenceRow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count preference_profiles: %w", err)
	}

	return count > 0, nil
}

func (r *PreferenceRepository) DeleteProfile(ctx context.Context, userID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Delete(&preferenceRow{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete preference profile: %w", err)
	}

	return nil
}

// ScrollProfiles pages over all profiles in stable user_id order for the
// decay sweep. Returns an empty slice past the end.
func (r *PreferenceRepository) ScrollProfiles(ctx context.Context, offset, limit int) ([]*domain.PreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []preferenceRow
	err := r.DB.WithContext(ctx).
		Order("user_id").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scroll preference_profiles: %w", err)
	}

	profiles := make([]*domain.PreferenceProfile, 0, len(rows))
	for _, row := range rows {
		var profile domain.PreferenceProfile
		if err := json.Unmarshal(row.ProfileJSON, &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile_json for user %d: %w", row.UserID, err)
		}
		profiles = append(profiles, &profile)
	}

	return profiles, nil
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ExperimentVariant is one arm of an experiment. Weight is a relative
// traffic share in [0, 100]; Algorithm names the scoring profile the arm
// selects.
type ExperimentVariant struct {
	ID        string            `json:"id"`
	Algorithm string            `json:"algorithm"`
	Weight    int               `json:"weight"`
	Params    datatypes.JSONMap `json:"params,omitempty"`
}

type ExperimentDefinition struct {
	ID        string     `json:"id" gorm:"column:id;primaryKey"`
	Name      string     `json:"name" gorm:"column:name"`
	StartDate time.Time  `json:"start_date" gorm:"column:start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" gorm:"column:end_date"`
	IsActive  bool       `json:"is_active" gorm:"column:is_active"`

	VariantsRaw []byte              `json:"-" gorm:"column:variants"`
	Variants    []ExperimentVariant `json:"variants" gorm:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ExperimentDefinition) TableName() string { return "experiment_definitions" }

// Running reports whether the experiment accepts assignments at t.
func (e ExperimentDefinition) Running(t time.Time) bool {
	if !e.IsActive || len(e.Variants) == 0 {
		return false
	}
	if t.Before(e.StartDate) {
		return false
	}
	if e.EndDate != nil && t.After(*e.EndDate) {
		return false
	}
	return true
}

// VariantAssignment is the resolved arm for one (user, experiment) pair.
// Stable within a process lifetime; reassignment after restart is accepted.
type VariantAssignment struct {
	ExperimentID string         `json:"experiment_id"`
	VariantID    string         `json:"variant_id"`
	Algorithm    string         `json:"algorithm"`
	Params       map[string]any `json:"params,omitempty"`
	Bucket       int            `json:"bucket"`
}

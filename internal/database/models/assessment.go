package models

import "github.com/google/uuid"

// ConditionAssessment is an immutable record of a condition observation.
// Append-only: recording one is the only sanctioned way to change an
// asset's condition, and it also advances the asset's last-inspection date.
type ConditionAssessment struct {
	Base
	AssetID uuid.UUID `gorm:"type:uuid;index;not null" json:"asset_id"`

	AssessmentDate    string         `gorm:"size:10;not null" json:"assessment_date"` // YYYY-MM-DD
	PreviousCondition AssetCondition `gorm:"size:16;not null" json:"previous_condition"`
	NewCondition      AssetCondition `gorm:"size:16;not null" json:"new_condition"`

	Assessor        string  `gorm:"size:255;not null" json:"assessor"`
	Findings        string  `gorm:"not null" json:"findings"`
	Recommendations *string `json:"recommendations,omitempty"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"-"`
}

func (ConditionAssessment) TableName() string {
	return "condition_assessments"
}

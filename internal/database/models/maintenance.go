package models

import "github.com/google/uuid"

type MaintenanceStatus string

const (
	StatusScheduled  MaintenanceStatus = "scheduled"
	StatusInProgress MaintenanceStatus = "in_progress"
	StatusCompleted  MaintenanceStatus = "completed"
	StatusCancelled  MaintenanceStatus = "cancelled"

	// StatusOverdue is a display-time overlay on a scheduled task whose date
	// has passed. It is never written to storage; use fleet.EffectiveStatus.
	StatusOverdue MaintenanceStatus = "overdue"
)

// IsPersistable reports whether the status may be stored. Overdue is
// derived at read time and rejected as a stored value.
func (s MaintenanceStatus) IsPersistable() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks a persisted status transition.
//
// Valid transitions:
// - scheduled -> in_progress, completed, cancelled
// - in_progress -> completed, cancelled
// - completed and cancelled are terminal
func (s MaintenanceStatus) CanTransitionTo(target MaintenanceStatus) bool {
	switch s {
	case StatusScheduled:
		return target == StatusInProgress || target == StatusCompleted || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	}
	return false
}

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
	PriorityUrgent MaintenancePriority = "urgent"
)

func (p MaintenancePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type MaintenanceType string

const (
	TypePreventive  MaintenanceType = "preventive"
	TypeCorrective  MaintenanceType = "corrective"
	TypeEmergency   MaintenanceType = "emergency"
	TypeInspection  MaintenanceType = "inspection"
	TypeReplacement MaintenanceType = "replacement"
)

func (t MaintenanceType) IsValid() bool {
	switch t {
	case TypePreventive, TypeCorrective, TypeEmergency, TypeInspection, TypeReplacement:
		return true
	}
	return false
}

// MaintenanceTask is a scheduled or completed work item against one asset.
// A task's existence is contingent on its asset: deleting the asset deletes
// the task.
type MaintenanceTask struct {
	Base
	AssetID uuid.UUID `gorm:"type:uuid;index;not null" json:"asset_id"`

	Title       string              `gorm:"size:255;not null" json:"title"`
	Description string              `json:"description"`
	Type        MaintenanceType     `gorm:"size:16;not null" json:"type"`
	Priority    MaintenancePriority `gorm:"size:16;not null;index" json:"priority"`
	Status      MaintenanceStatus   `gorm:"size:16;not null;index" json:"status"`

	ScheduledDate string  `gorm:"size:10;not null" json:"scheduled_date"` // YYYY-MM-DD
	CompletedDate *string `gorm:"size:10" json:"completed_date,omitempty"`

	AssignedTo    *string  `gorm:"size:255" json:"assigned_to,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	ActualCost    *float64 `json:"actual_cost,omitempty"`
	Notes         *string  `json:"notes,omitempty"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"-"`
}

func (MaintenanceTask) TableName() string {
	return "maintenance_tasks"
}

package models

import "github.com/google/uuid"

// MaintenanceSchedule is a recurring maintenance definition. The worker
// materializes due schedules into MaintenanceTask rows and advances
// NextRunAt from the cron expression.
type MaintenanceSchedule struct {
	Base
	AssetID uuid.UUID `gorm:"type:uuid;index;not null" json:"asset_id"`

	Name     string              `gorm:"size:255;not null" json:"name"`
	CronExpr string              `gorm:"size:100;not null" json:"cron_expr"` // e.g. "0 6 1 * *" (monthly)
	TaskType MaintenanceType     `gorm:"size:16;not null" json:"task_type"`
	Priority MaintenancePriority `gorm:"size:16;not null" json:"priority"`

	IsEnabled bool `gorm:"default:true;index" json:"is_enabled"`

	// Timing (Unix timestamps, UTC)
	NextRunAt  int64      `gorm:"index" json:"next_run_at"`
	LastRunAt  *int64     `json:"last_run_at,omitempty"`
	LastTaskID *uuid.UUID `gorm:"type:uuid" json:"last_task_id,omitempty"`

	Asset    *Asset           `gorm:"foreignKey:AssetID" json:"-"`
	LastTask *MaintenanceTask `gorm:"foreignKey:LastTaskID" json:"-"`
}

func (MaintenanceSchedule) TableName() string {
	return "maintenance_schedules"
}

package fleet

import (
	"time"

	"github.com/mwhite/waterline/internal/database/models"
)

// EffectiveStatus overlays the derived overdue state on a persisted task
// status: a scheduled task whose date is strictly past displays as overdue.
// The result is recomputed on every read and never written back; an
// overdue task can still move to in_progress or completed.
func EffectiveStatus(persisted models.MaintenanceStatus, scheduledDate string, now time.Time) models.MaintenanceStatus {
	if persisted == models.StatusScheduled && IsOverdue(scheduledDate, now) {
		return models.StatusOverdue
	}
	return persisted
}

// EffectiveTaskStatus is EffectiveStatus for a task record.
func EffectiveTaskStatus(task *models.MaintenanceTask, now time.Time) models.MaintenanceStatus {
	return EffectiveStatus(task.Status, task.ScheduledDate, now)
}

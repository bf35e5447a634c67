package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeGenerateMaintenance = "maintenance:generate"
	TypeSchedulerTick       = "scheduler:tick"
)

// GenerateMaintenancePayload identifies the schedule to materialize into a
// maintenance task.
type GenerateMaintenancePayload struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
}

func NewGenerateMaintenanceTask(payload GenerateMaintenancePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateMaintenance, data), nil
}

// SchedulerTickPayload is empty - the tick sweeps every enabled schedule.
type SchedulerTickPayload struct{}

func NewSchedulerTickTask() *asynq.Task {
	return asynq.NewTask(TypeSchedulerTick, nil)
}

package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/pkg/util"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeGenerateMaintenance, h.HandleGenerateMaintenance)
	mux.HandleFunc(TypeSchedulerTick, h.HandleSchedulerTick)
}

// HandleGenerateMaintenance materializes one schedule into a maintenance
// task and advances its next-run time.
func (h *Handler) HandleGenerateMaintenance(ctx context.Context, t *asynq.Task) error {
	var payload GenerateMaintenancePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var schedule models.MaintenanceSchedule
	if err := h.db.WithContext(ctx).First(&schedule, "id = ?", payload.ScheduleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Schedule deleted between enqueue and run; nothing to do.
			h.logger.Warn("schedule gone, skipping", "schedule_id", payload.ScheduleID)
			return nil
		}
		return fmt.Errorf("load schedule: %w", err)
	}

	if err := h.materialize(ctx, &schedule, time.Now()); err != nil {
		return err
	}

	h.logger.Info("generated maintenance task",
		"schedule_id", schedule.ID,
		"asset_id", schedule.AssetID,
		"next_run_at", schedule.NextRunAt,
	)
	return nil
}

// HandleSchedulerTick sweeps every enabled schedule that has come due and
// materializes it directly.
func (h *Handler) HandleSchedulerTick(ctx context.Context, t *asynq.Task) error {
	now := time.Now()

	var due []models.MaintenanceSchedule
	if err := h.db.WithContext(ctx).
		Where("is_enabled = ? AND next_run_at <= ?", true, now.Unix()).
		Find(&due).Error; err != nil {
		return fmt.Errorf("load due schedules: %w", err)
	}

	for i := range due {
		if err := h.materialize(ctx, &due[i], now); err != nil {
			h.logger.Error("failed to materialize schedule",
				"schedule_id", due[i].ID,
				"error", err,
			)
			continue
		}
	}

	if len(due) > 0 {
		h.logger.Info("scheduler tick", "materialized", len(due))
	}
	return nil
}

// materialize creates the task for a schedule and advances NextRunAt in one
// transaction.
func (h *Handler) materialize(ctx context.Context, schedule *models.MaintenanceSchedule, now time.Time) error {
	var asset models.Asset
	if err := h.db.WithContext(ctx).First(&asset, "id = ?", schedule.AssetID).Error; err != nil {
		return fmt.Errorf("load asset: %w", err)
	}

	nextRun, err := util.NextCronTime(schedule.CronExpr, now)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", schedule.ID, err)
	}

	task := models.MaintenanceTask{
		AssetID:       schedule.AssetID,
		Title:         schedule.Name,
		Description:   fmt.Sprintf("Recurring %s maintenance for %s", schedule.TaskType, asset.Name),
		Type:          schedule.TaskType,
		Priority:      schedule.Priority,
		Status:        models.StatusScheduled,
		ScheduledDate: now.Format(models.DateLayout),
	}

	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		lastRun := now.Unix()
		return tx.Model(schedule).Updates(map[string]interface{}{
			"next_run_at":  nextRun.Unix(),
			"last_run_at":  lastRun,
			"last_task_id": task.ID,
			"updated_at":   now,
		}).Error
	})
}

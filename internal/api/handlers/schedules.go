package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/mwhite/waterline/internal/api/dto"
	"github.com/mwhite/waterline/internal/api/validation"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/internal/tasks"
	"github.com/mwhite/waterline/pkg/util"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	db          *gorm.DB
	asynqClient *asynq.Client
}

func NewScheduleHandler(db *gorm.DB, asynqClient *asynq.Client) *ScheduleHandler {
	return &ScheduleHandler{db: db, asynqClient: asynqClient}
}

// CreateScheduleRequest represents the request to create a recurring
// maintenance schedule
type CreateScheduleRequest struct {
	AssetID  string `json:"asset_id"`
	Name     string `json:"name"`
	CronExpr string `json:"cron_expr"`
	TaskType string `json:"task_type"`
	Priority string `json:"priority"`
}

func (r CreateScheduleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.AssetID) {
		errors["asset_id"] = "Invalid asset ID format"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.CronExpr == "" {
		errors["cron_expr"] = "Cron expression is required"
	} else if err := util.ValidateCronExpr(r.CronExpr); err != nil {
		errors["cron_expr"] = err.Error()
	}
	if !models.MaintenanceType(r.TaskType).IsValid() {
		errors["task_type"] = "Invalid maintenance type"
	}
	if !models.MaintenancePriority(r.Priority).IsValid() {
		errors["priority"] = "Invalid priority"
	}
	return errors
}

// UpdateScheduleRequest represents the request to update a schedule
type UpdateScheduleRequest struct {
	Name      *string `json:"name,omitempty"`
	CronExpr  *string `json:"cron_expr,omitempty"`
	TaskType  *string `json:"task_type,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	IsEnabled *bool   `json:"is_enabled,omitempty"`
}

func (r UpdateScheduleRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.CronExpr != nil {
		if err := util.ValidateCronExpr(*r.CronExpr); err != nil {
			errors["cron_expr"] = err.Error()
		}
	}
	if r.TaskType != nil && !models.MaintenanceType(*r.TaskType).IsValid() {
		errors["task_type"] = "Invalid maintenance type"
	}
	if r.Priority != nil && !models.MaintenancePriority(*r.Priority).IsValid() {
		errors["priority"] = "Invalid priority"
	}
	return errors
}

// ScheduleResponse represents a schedule in API responses
type ScheduleResponse struct {
	ID         string  `json:"id"`
	AssetID    string  `json:"asset_id"`
	Name       string  `json:"name"`
	CronExpr   string  `json:"cron_expr"`
	TaskType   string  `json:"task_type"`
	Priority   string  `json:"priority"`
	IsEnabled  bool    `json:"is_enabled"`
	NextRunAt  int64   `json:"next_run_at"`
	LastRunAt  *int64  `json:"last_run_at,omitempty"`
	LastTaskID *string `json:"last_task_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func scheduleToResponse(s *models.MaintenanceSchedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:        s.ID.String(),
		AssetID:   s.AssetID.String(),
		Name:      s.Name,
		CronExpr:  s.CronExpr,
		TaskType:  string(s.TaskType),
		Priority:  string(s.Priority),
		IsEnabled: s.IsEnabled,
		NextRunAt: s.NextRunAt,
		LastRunAt: s.LastRunAt,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if s.LastTaskID != nil {
		id := s.LastTaskID.String()
		resp.LastTaskID = &id
	}
	return resp
}

// List handles GET /api/v1/schedules
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	query := h.db.Model(&models.MaintenanceSchedule{})
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		if id, err := uuid.Parse(assetID); err == nil {
			query = query.Where("asset_id = ?", id)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count schedules"})
		return
	}

	var schedules []models.MaintenanceSchedule
	if err := query.
		Order("next_run_at ASC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&schedules).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list schedules"})
		return
	}

	response := make([]ScheduleResponse, len(schedules))
	for i := range schedules {
		response[i] = scheduleToResponse(&schedules[i])
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.Pages(total),
	})
}

// Create handles POST /api/v1/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	assetID := uuid.MustParse(req.AssetID)
	var asset models.Asset
	if err := h.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Asset not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get asset"})
		return
	}

	nextRun, err := util.NextCronTime(req.CronExpr, time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid cron expression"})
		return
	}

	schedule := models.MaintenanceSchedule{
		AssetID:   assetID,
		Name:      req.Name,
		CronExpr:  req.CronExpr,
		TaskType:  models.MaintenanceType(req.TaskType),
		Priority:  models.MaintenancePriority(req.Priority),
		IsEnabled: true,
		NextRunAt: nextRun.Unix(),
	}

	if err := h.db.Create(&schedule).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create schedule"})
		return
	}

	writeJSON(w, http.StatusCreated, scheduleToResponse(&schedule))
}

// Get handles GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	var schedule models.MaintenanceSchedule
	if err := h.db.First(&schedule, "id = ?", scheduleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get schedule"})
		return
	}

	writeJSON(w, http.StatusOK, scheduleToResponse(&schedule))
}

// Update handles PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	var req UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var schedule models.MaintenanceSchedule
	if err := h.db.First(&schedule, "id = ?", scheduleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get schedule"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CronExpr != nil {
		nextRun, err := util.NextCronTime(*req.CronExpr, time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid cron expression"})
			return
		}
		updates["cron_expr"] = *req.CronExpr
		updates["next_run_at"] = nextRun.Unix()
	}
	if req.TaskType != nil {
		updates["task_type"] = models.MaintenanceType(*req.TaskType)
	}
	if req.Priority != nil {
		updates["priority"] = models.MaintenancePriority(*req.Priority)
	}
	if req.IsEnabled != nil {
		updates["is_enabled"] = *req.IsEnabled
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := h.db.Model(&schedule).Updates(updates).Error; err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update schedule"})
			return
		}
	}

	h.db.First(&schedule, "id = ?", scheduleID)
	writeJSON(w, http.StatusOK, scheduleToResponse(&schedule))
}

// Delete handles DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	result := h.db.Delete(&models.MaintenanceSchedule{}, "id = ?", scheduleID)
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete schedule"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Schedule deleted"})
}

// Trigger handles POST /api/v1/schedules/:id/trigger, enqueuing an
// immediate run of the schedule.
func (h *ScheduleHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.asynqClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Background queue unavailable"})
		return
	}

	scheduleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	var schedule models.MaintenanceSchedule
	if err := h.db.First(&schedule, "id = ?", scheduleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Schedule not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get schedule"})
		return
	}

	task, err := tasks.NewGenerateMaintenanceTask(tasks.GenerateMaintenancePayload{ScheduleID: schedule.ID})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to build job"})
		return
	}

	if _, err := h.asynqClient.EnqueueContext(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to enqueue job"})
		return
	}

	writeJSON(w, http.StatusAccepted, dto.SuccessResponse{Message: "Schedule triggered"})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mwhite/waterline/internal/api/dto"
	"github.com/mwhite/waterline/internal/api/validation"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/internal/fleet"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db *gorm.DB
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db}
}

// CreateTaskRequest represents the request to create a maintenance task
type CreateTaskRequest struct {
	AssetID       string   `json:"asset_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Type          string   `json:"type"`
	Priority      string   `json:"priority"`
	ScheduledDate string   `json:"scheduled_date"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r CreateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.AssetID) {
		errors["asset_id"] = "Invalid asset ID format"
	}
	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if !models.MaintenanceType(r.Type).IsValid() {
		errors["type"] = "Invalid maintenance type"
	}
	if !models.MaintenancePriority(r.Priority).IsValid() {
		errors["priority"] = "Invalid priority"
	}
	if !validation.IsValidDate(r.ScheduledDate) {
		errors["scheduled_date"] = "Scheduled date must be YYYY-MM-DD"
	}
	if r.EstimatedCost != nil && *r.EstimatedCost < 0 {
		errors["estimated_cost"] = "Estimated cost cannot be negative"
	}
	return errors
}

// UpdateTaskRequest updates task attributes. Status changes go through the
// status endpoint so the transition rules apply.
type UpdateTaskRequest struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Type          *string  `json:"type,omitempty"`
	Priority      *string  `json:"priority,omitempty"`
	ScheduledDate *string  `json:"scheduled_date,omitempty"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (r UpdateTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title cannot be empty"
	}
	if r.Type != nil && !models.MaintenanceType(*r.Type).IsValid() {
		errors["type"] = "Invalid maintenance type"
	}
	if r.Priority != nil && !models.MaintenancePriority(*r.Priority).IsValid() {
		errors["priority"] = "Invalid priority"
	}
	if r.ScheduledDate != nil && !validation.IsValidDate(*r.ScheduledDate) {
		errors["scheduled_date"] = "Scheduled date must be YYYY-MM-DD"
	}
	if r.EstimatedCost != nil && *r.EstimatedCost < 0 {
		errors["estimated_cost"] = "Estimated cost cannot be negative"
	}
	return errors
}

// TransitionTaskRequest moves a task through its status state machine.
type TransitionTaskRequest struct {
	Status     string   `json:"status"`
	ActualCost *float64 `json:"actual_cost,omitempty"`
}

func (r TransitionTaskRequest) Validate() map[string]string {
	errors := make(map[string]string)
	status := models.MaintenanceStatus(r.Status)
	if !status.IsPersistable() {
		errors["status"] = "Invalid status. Must be one of: scheduled, in_progress, completed, cancelled"
	}
	if r.ActualCost != nil && *r.ActualCost < 0 {
		errors["actual_cost"] = "Actual cost cannot be negative"
	}
	return errors
}

// TaskResponse represents a maintenance task in API responses. Status is
// the persisted value; EffectiveStatus overlays the derived overdue state.
type TaskResponse struct {
	ID              string   `json:"id"`
	AssetID         string   `json:"asset_id"`
	AssetName       string   `json:"asset_name,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Type            string   `json:"type"`
	Priority        string   `json:"priority"`
	Status          string   `json:"status"`
	EffectiveStatus string   `json:"effective_status"`
	ScheduledDate   string   `json:"scheduled_date"`
	CompletedDate   *string  `json:"completed_date,omitempty"`
	AssignedTo      *string  `json:"assigned_to,omitempty"`
	EstimatedCost   *float64 `json:"estimated_cost,omitempty"`
	ActualCost      *float64 `json:"actual_cost,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

func taskToResponse(task *models.MaintenanceTask, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:              task.ID.String(),
		AssetID:         task.AssetID.String(),
		Title:           task.Title,
		Description:     task.Description,
		Type:            string(task.Type),
		Priority:        string(task.Priority),
		Status:          string(task.Status),
		EffectiveStatus: string(fleet.EffectiveTaskStatus(task, now)),
		ScheduledDate:   task.ScheduledDate,
		CompletedDate:   task.CompletedDate,
		AssignedTo:      task.AssignedTo,
		EstimatedCost:   task.EstimatedCost,
		ActualCost:      task.ActualCost,
		Notes:           task.Notes,
		CreatedAt:       task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       task.UpdatedAt.Format(time.RFC3339),
	}
	if task.Asset != nil {
		resp.AssetName = task.Asset.Name
	}
	return resp
}

// List handles GET /api/v1/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	status := r.URL.Query().Get("status")
	priority := r.URL.Query().Get("priority")
	assetID := r.URL.Query().Get("asset_id")

	now := time.Now()
	query := h.db.Model(&models.MaintenanceTask{})

	// The status filter matches the effective status. Overdue is never
	// stored, so it is expressed as scheduled-with-a-past-date; ISO dates
	// compare correctly as strings.
	switch models.MaintenanceStatus(status) {
	case models.StatusOverdue:
		query = query.Where("status = ? AND scheduled_date <= ?", models.StatusScheduled, now.Format(models.DateLayout))
	case models.StatusScheduled:
		query = query.Where("status = ? AND scheduled_date > ?", models.StatusScheduled, now.Format(models.DateLayout))
	case "":
		// no filter
	default:
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assetID != "" {
		if id, err := uuid.Parse(assetID); err == nil {
			query = query.Where("asset_id = ?", id)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count tasks"})
		return
	}

	var tasks []models.MaintenanceTask
	if err := query.
		Preload("Asset").
		Order("scheduled_date ASC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&tasks).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = taskToResponse(&tasks[i], now)
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.Pages(total),
	})
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
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

	task := models.MaintenanceTask{
		AssetID:       assetID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          models.MaintenanceType(req.Type),
		Priority:      models.MaintenancePriority(req.Priority),
		Status:        models.StatusScheduled,
		ScheduledDate: req.ScheduledDate,
		AssignedTo:    req.AssignedTo,
		EstimatedCost: req.EstimatedCost,
		Notes:         req.Notes,
	}

	if err := h.db.Create(&task).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create task"})
		return
	}

	task.Asset = &asset
	writeJSON(w, http.StatusCreated, taskToResponse(&task, time.Now()))
}

// Get handles GET /api/v1/tasks/:id
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	var task models.MaintenanceTask
	if err := h.db.Preload("Asset").First(&task, "id = ?", taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
		return
	}

	writeJSON(w, http.StatusOK, taskToResponse(&task, time.Now()))
}

// Update handles PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var task models.MaintenanceTask
	if err := h.db.First(&task, "id = ?", taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		updates["type"] = models.MaintenanceType(*req.Type)
	}
	if req.Priority != nil {
		updates["priority"] = models.MaintenancePriority(*req.Priority)
	}
	if req.ScheduledDate != nil {
		updates["scheduled_date"] = *req.ScheduledDate
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.EstimatedCost != nil {
		updates["estimated_cost"] = *req.EstimatedCost
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := h.db.Model(&task).Updates(updates).Error; err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update task"})
			return
		}
	}

	h.db.Preload("Asset").First(&task, "id = ?", taskID)
	writeJSON(w, http.StatusOK, taskToResponse(&task, time.Now()))
}

// Transition handles PUT /api/v1/tasks/:id/status. This is the only path
// that persists a status change; the derived overdue overlay never is.
func (h *TaskHandler) Transition(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	var req TransitionTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var task models.MaintenanceTask
	if err := h.db.First(&task, "id = ?", taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get task"})
		return
	}

	newStatus := models.MaintenanceStatus(req.Status)
	if !task.Status.CanTransitionTo(newStatus) {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Error: "Invalid status transition from " + string(task.Status) + " to " + string(newStatus),
		})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": now,
	}

	if newStatus == models.StatusCompleted {
		updates["completed_date"] = now.Format(models.DateLayout)
		if req.ActualCost != nil {
			updates["actual_cost"] = *req.ActualCost
		}
	}

	if err := h.db.Model(&task).Updates(updates).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update task status"})
		return
	}

	h.db.Preload("Asset").First(&task, "id = ?", taskID)
	writeJSON(w, http.StatusOK, taskToResponse(&task, time.Now()))
}

// Delete handles DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid task ID"})
		return
	}

	result := h.db.Delete(&models.MaintenanceTask{}, "id = ?", taskID)
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete task"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Task deleted"})
}

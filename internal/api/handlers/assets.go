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

type AssetHandler struct {
	db *gorm.DB
}

func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{db: db}
}

// CreateAssetRequest represents the request to create an asset
type CreateAssetRequest struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description,omitempty"`
	Location         string   `json:"location,omitempty"`
	InstallDate      string   `json:"install_date"`
	ExpectedLifespan int      `json:"expected_lifespan"`
	Condition        string   `json:"condition"`
	NextInspection   *string  `json:"next_inspection,omitempty"`
	ReplacementCost  float64  `json:"replacement_cost"`
	Manufacturer     *string  `json:"manufacturer,omitempty"`
	Model            *string  `json:"model,omitempty"`
	SerialNumber     *string  `json:"serial_number,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

func (r CreateAssetRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if !models.AssetCategory(r.Category).IsValid() {
		errors["category"] = "Invalid asset category"
	}
	if !validation.IsValidDate(r.InstallDate) {
		errors["install_date"] = "Install date must be YYYY-MM-DD"
	}
	if r.ExpectedLifespan <= 0 {
		errors["expected_lifespan"] = "Expected lifespan must be a positive number of years"
	}
	if !models.AssetCondition(r.Condition).IsValid() {
		errors["condition"] = "Invalid condition"
	}
	if r.ReplacementCost < 0 {
		errors["replacement_cost"] = "Replacement cost cannot be negative"
	}
	if r.NextInspection != nil && !validation.IsValidDate(*r.NextInspection) {
		errors["next_inspection"] = "Next inspection must be YYYY-MM-DD"
	}
	return errors
}

// UpdateAssetRequest updates asset attributes. Condition is deliberately
// absent: recording a condition assessment is the only way to change it.
type UpdateAssetRequest struct {
	Name             *string  `json:"name,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Location         *string  `json:"location,omitempty"`
	InstallDate      *string  `json:"install_date,omitempty"`
	ExpectedLifespan *int     `json:"expected_lifespan,omitempty"`
	NextInspection   *string  `json:"next_inspection,omitempty"`
	ReplacementCost  *float64 `json:"replacement_cost,omitempty"`
	Manufacturer     *string  `json:"manufacturer,omitempty"`
	Model            *string  `json:"model,omitempty"`
	SerialNumber     *string  `json:"serial_number,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

func (r UpdateAssetRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Category != nil && !models.AssetCategory(*r.Category).IsValid() {
		errors["category"] = "Invalid asset category"
	}
	if r.InstallDate != nil && !validation.IsValidDate(*r.InstallDate) {
		errors["install_date"] = "Install date must be YYYY-MM-DD"
	}
	if r.ExpectedLifespan != nil && *r.ExpectedLifespan <= 0 {
		errors["expected_lifespan"] = "Expected lifespan must be a positive number of years"
	}
	if r.ReplacementCost != nil && *r.ReplacementCost < 0 {
		errors["replacement_cost"] = "Replacement cost cannot be negative"
	}
	if r.NextInspection != nil && !validation.IsValidDate(*r.NextInspection) {
		errors["next_inspection"] = "Next inspection must be YYYY-MM-DD"
	}
	return errors
}

// AssetResponse represents an asset in API responses, including the derived
// life-cycle fields the views display.
type AssetResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description,omitempty"`
	Location         string   `json:"location,omitempty"`
	InstallDate      string   `json:"install_date"`
	ExpectedLifespan int      `json:"expected_lifespan"`
	Condition        string   `json:"condition"`
	LastInspection   *string  `json:"last_inspection,omitempty"`
	NextInspection   *string  `json:"next_inspection,omitempty"`
	ReplacementCost  float64  `json:"replacement_cost"`
	Manufacturer     *string  `json:"manufacturer,omitempty"`
	Model            *string  `json:"model,omitempty"`
	SerialNumber     *string  `json:"serial_number,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`

	// Derived, never persisted
	Age             int `json:"age"`
	RemainingLife   int `json:"remaining_life"`
	LifeUsedPercent int `json:"life_used_percent"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func assetToResponse(asset *models.Asset, now time.Time) AssetResponse {
	return AssetResponse{
		ID:               asset.ID.String(),
		Name:             asset.Name,
		Category:         string(asset.Category),
		Description:      asset.Description,
		Location:         asset.Location,
		InstallDate:      asset.InstallDate,
		ExpectedLifespan: asset.ExpectedLifespan,
		Condition:        string(asset.Condition),
		LastInspection:   asset.LastInspection,
		NextInspection:   asset.NextInspection,
		ReplacementCost:  asset.ReplacementCost,
		Manufacturer:     asset.Manufacturer,
		Model:            asset.Model,
		SerialNumber:     asset.SerialNumber,
		Notes:            asset.Notes,
		Latitude:         asset.Latitude,
		Longitude:        asset.Longitude,
		Age:              fleet.Age(asset.InstallDate, now),
		RemainingLife:    fleet.RemainingLife(asset.InstallDate, asset.ExpectedLifespan, now),
		LifeUsedPercent:  fleet.LifeUsedPercent(asset.InstallDate, asset.ExpectedLifespan, now),
		CreatedAt:        asset.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        asset.UpdatedAt.Format(time.RFC3339),
	}
}

// List handles GET /api/v1/assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	category := r.URL.Query().Get("category")
	condition := r.URL.Query().Get("condition")

	query := h.db.Model(&models.Asset{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if condition != "" {
		query = query.Where("condition = ?", condition)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count assets"})
		return
	}

	var assets []models.Asset
	if err := query.
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&assets).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list assets"})
		return
	}

	now := time.Now()
	response := make([]AssetResponse, len(assets))
	for i := range assets {
		response[i] = assetToResponse(&assets[i], now)
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.Pages(total),
	})
}

// Create handles POST /api/v1/assets
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	asset := models.Asset{
		Name:             req.Name,
		Category:         models.AssetCategory(req.Category),
		Description:      req.Description,
		Location:         req.Location,
		InstallDate:      req.InstallDate,
		ExpectedLifespan: req.ExpectedLifespan,
		Condition:        models.AssetCondition(req.Condition),
		NextInspection:   req.NextInspection,
		ReplacementCost:  req.ReplacementCost,
		Manufacturer:     req.Manufacturer,
		Model:            req.Model,
		SerialNumber:     req.SerialNumber,
		Notes:            req.Notes,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}

	if err := h.db.Create(&asset).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create asset"})
		return
	}

	writeJSON(w, http.StatusCreated, assetToResponse(&asset, time.Now()))
}

// Get handles GET /api/v1/assets/:id
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid asset ID"})
		return
	}

	var asset models.Asset
	if err := h.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Asset not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get asset"})
		return
	}

	writeJSON(w, http.StatusOK, assetToResponse(&asset, time.Now()))
}

// Update handles PUT /api/v1/assets/:id
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid asset ID"})
		return
	}

	var req UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	var asset models.Asset
	if err := h.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Asset not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get asset"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = models.AssetCategory(*req.Category)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.InstallDate != nil {
		updates["install_date"] = *req.InstallDate
	}
	if req.ExpectedLifespan != nil {
		updates["expected_lifespan"] = *req.ExpectedLifespan
	}
	if req.NextInspection != nil {
		updates["next_inspection"] = *req.NextInspection
	}
	if req.ReplacementCost != nil {
		updates["replacement_cost"] = *req.ReplacementCost
	}
	if req.Manufacturer != nil {
		updates["manufacturer"] = *req.Manufacturer
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = *req.SerialNumber
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := h.db.Model(&asset).Updates(updates).Error; err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update asset"})
			return
		}
	}

	h.db.First(&asset, "id = ?", assetID)
	writeJSON(w, http.StatusOK, assetToResponse(&asset, time.Now()))
}

// Delete handles DELETE /api/v1/assets/:id. Tasks, schedules, and
// assessments belong to their asset and are removed with it.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid asset ID"})
		return
	}

	var asset models.Asset
	if err := h.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Asset not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get asset"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.MaintenanceTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.MaintenanceSchedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.ConditionAssessment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&asset).Error
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete asset"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Asset deleted"})
}

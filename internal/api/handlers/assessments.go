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

type AssessmentHandler struct {
	db *gorm.DB
}

func NewAssessmentHandler(db *gorm.DB) *AssessmentHandler {
	return &AssessmentHandler{db: db}
}

// CreateAssessmentRequest records a condition observation. The previous
// condition is read from the asset, not supplied by the client.
type CreateAssessmentRequest struct {
	AssetID         string  `json:"asset_id"`
	AssessmentDate  string  `json:"assessment_date"`
	NewCondition    string  `json:"new_condition"`
	Assessor        string  `json:"assessor"`
	Findings        string  `json:"findings"`
	Recommendations *string `json:"recommendations,omitempty"`
}

func (r CreateAssessmentRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !validation.IsValidUUID(r.AssetID) {
		errors["asset_id"] = "Invalid asset ID format"
	}
	if !validation.IsValidDate(r.AssessmentDate) {
		errors["assessment_date"] = "Assessment date must be YYYY-MM-DD"
	}
	if !models.AssetCondition(r.NewCondition).IsValid() {
		errors["new_condition"] = "Invalid condition"
	}
	if r.Assessor == "" {
		errors["assessor"] = "Assessor is required"
	}
	if r.Findings == "" {
		errors["findings"] = "Findings are required"
	}
	return errors
}

// AssessmentResponse represents an assessment in API responses, with the
// trend classification of the recorded transition.
type AssessmentResponse struct {
	ID                string  `json:"id"`
	AssetID           string  `json:"asset_id"`
	AssetName         string  `json:"asset_name,omitempty"`
	AssessmentDate    string  `json:"assessment_date"`
	PreviousCondition string  `json:"previous_condition"`
	NewCondition      string  `json:"new_condition"`
	Trend             string  `json:"trend"`
	Assessor          string  `json:"assessor"`
	Findings          string  `json:"findings"`
	Recommendations   *string `json:"recommendations,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func assessmentToResponse(a *models.ConditionAssessment) AssessmentResponse {
	resp := AssessmentResponse{
		ID:                a.ID.String(),
		AssetID:           a.AssetID.String(),
		AssessmentDate:    a.AssessmentDate,
		PreviousCondition: string(a.PreviousCondition),
		NewCondition:      string(a.NewCondition),
		Trend:             string(fleet.ClassifyTrend(a.PreviousCondition, a.NewCondition)),
		Assessor:          a.Assessor,
		Findings:          a.Findings,
		Recommendations:   a.Recommendations,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
	if a.Asset != nil {
		resp.AssetName = a.Asset.Name
	}
	return resp
}

// List handles GET /api/v1/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := dto.PaginationParams{Page: page, PerPage: perPage}
	pagination.Normalize()

	query := h.db.Model(&models.ConditionAssessment{})
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		if id, err := uuid.Parse(assetID); err == nil {
			query = query.Where("asset_id = ?", id)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to count assessments"})
		return
	}

	var assessments []models.ConditionAssessment
	if err := query.
		Preload("Asset").
		Order("assessment_date DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&assessments).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list assessments"})
		return
	}

	response := make([]AssessmentResponse, len(assessments))
	for i := range assessments {
		response[i] = assessmentToResponse(&assessments[i])
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       response,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: pagination.Pages(total),
	})
}

// Create handles POST /api/v1/assessments. The assessment row, the asset's
// condition, and its last-inspection date commit together.
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
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

	assessment := models.ConditionAssessment{
		AssetID:           assetID,
		AssessmentDate:    req.AssessmentDate,
		PreviousCondition: asset.Condition,
		NewCondition:      models.AssetCondition(req.NewCondition),
		Assessor:          req.Assessor,
		Findings:          req.Findings,
		Recommendations:   req.Recommendations,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}
		return tx.Model(&asset).Updates(map[string]interface{}{
			"condition":       assessment.NewCondition,
			"last_inspection": assessment.AssessmentDate,
			"updated_at":      time.Now(),
		}).Error
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to record assessment"})
		return
	}

	assessment.Asset = &asset
	writeJSON(w, http.StatusCreated, assessmentToResponse(&assessment))
}

// Get handles GET /api/v1/assessments/:id
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assessmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid assessment ID"})
		return
	}

	var assessment models.ConditionAssessment
	if err := h.db.Preload("Asset").First(&assessment, "id = ?", assessmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Assessment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get assessment"})
		return
	}

	writeJSON(w, http.StatusOK, assessmentToResponse(&assessment))
}

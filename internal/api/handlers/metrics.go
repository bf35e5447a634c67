package handlers

import (
	"net/http"
	"time"

	"github.com/mwhite/waterline/internal/api/dto"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/internal/fleet"
	"gorm.io/gorm"
)

type MetricsHandler struct {
	db                 *gorm.DB
	upcomingWindowDays int
}

func NewMetricsHandler(db *gorm.DB, upcomingWindowDays int) *MetricsHandler {
	if upcomingWindowDays <= 0 {
		upcomingWindowDays = fleet.DefaultUpcomingWindowDays
	}
	return &MetricsHandler{db: db, upcomingWindowDays: upcomingWindowDays}
}

// Get handles GET /api/v1/metrics. Metrics are recomputed from full
// snapshots on every request; nothing is cached.
func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var assets []models.Asset
	if err := h.db.Find(&assets).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load assets"})
		return
	}

	var tasks []models.MaintenanceTask
	if err := h.db.Find(&tasks).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load tasks"})
		return
	}

	writeJSON(w, http.StatusOK, fleet.Compute(assets, tasks, time.Now()))
}

// ConditionReportRow is one asset's life-cycle summary for the condition
// report view.
type ConditionReportRow struct {
	AssetID         string `json:"asset_id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Condition       string `json:"condition"`
	Age             int    `json:"age"`
	RemainingLife   int    `json:"remaining_life"`
	LifeUsedPercent int    `json:"life_used_percent"`
	NeedsAttention  bool   `json:"needs_attention"`
	LastInspection  *string `json:"last_inspection,omitempty"`
	// Trend of the most recent assessment, if any
	LatestTrend *string `json:"latest_trend,omitempty"`
	// Inspection due inside the upcoming window
	InspectionDueSoon bool `json:"inspection_due_soon"`
}

// ConditionReport handles GET /api/v1/reports/condition.
func (h *MetricsHandler) ConditionReport(w http.ResponseWriter, r *http.Request) {
	var assets []models.Asset
	if err := h.db.Order("name ASC").Find(&assets).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load assets"})
		return
	}

	var assessments []models.ConditionAssessment
	if err := h.db.Order("assessment_date DESC, created_at DESC").Find(&assessments).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load assessments"})
		return
	}

	// First assessment seen per asset is its latest.
	latest := make(map[string]*models.ConditionAssessment, len(assets))
	for i := range assessments {
		key := assessments[i].AssetID.String()
		if _, ok := latest[key]; !ok {
			latest[key] = &assessments[i]
		}
	}

	now := time.Now()
	rows := make([]ConditionReportRow, len(assets))
	for i := range assets {
		a := &assets[i]
		row := ConditionReportRow{
			AssetID:         a.ID.String(),
			Name:            a.Name,
			Category:        string(a.Category),
			Condition:       string(a.Condition),
			Age:             fleet.Age(a.InstallDate, now),
			RemainingLife:   fleet.RemainingLife(a.InstallDate, a.ExpectedLifespan, now),
			LifeUsedPercent: fleet.LifeUsedPercent(a.InstallDate, a.ExpectedLifespan, now),
			NeedsAttention:  a.Condition == models.ConditionPoor || a.Condition == models.ConditionCritical,
			LastInspection:  a.LastInspection,
		}
		if a.NextInspection != nil {
			row.InspectionDueSoon = fleet.IsUpcoming(*a.NextInspection, now, h.upcomingWindowDays) ||
				fleet.IsOverdue(*a.NextInspection, now)
		}
		if assessment, ok := latest[row.AssetID]; ok {
			trend := string(fleet.ClassifyTrend(assessment.PreviousCondition, assessment.NewCondition))
			row.LatestTrend = &trend
		}
		rows[i] = row
	}

	writeJSON(w, http.StatusOK, rows)
}

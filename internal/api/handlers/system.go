package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mwhite/waterline/internal/api/dto"
	"github.com/mwhite/waterline/internal/api/validation"
	"github.com/mwhite/waterline/internal/database/models"
	"gorm.io/gorm"
)

type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// UpdateSystemRequest updates the water system record.
type UpdateSystemRequest struct {
	Name               *string `json:"name,omitempty"`
	PWSID              *string `json:"pws_id,omitempty"`
	Population         *int    `json:"population,omitempty"`
	ServiceConnections *int    `json:"service_connections,omitempty"`
	SystemType         *string `json:"system_type,omitempty"`
	Address            *string `json:"address,omitempty"`
	ContactName        *string `json:"contact_name,omitempty"`
	ContactPhone       *string `json:"contact_phone,omitempty"`
	ContactEmail       *string `json:"contact_email,omitempty"`
}

func (r UpdateSystemRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.PWSID != nil && !validation.IsValidPWSID(*r.PWSID) {
		errors["pws_id"] = "PWS ID must be a two-letter state code followed by seven digits"
	}
	if r.Population != nil && *r.Population < 0 {
		errors["population"] = "Population cannot be negative"
	}
	if r.ServiceConnections != nil && *r.ServiceConnections < 0 {
		errors["service_connections"] = "Service connections cannot be negative"
	}
	if r.SystemType != nil && !models.SystemType(*r.SystemType).IsValid() {
		errors["system_type"] = "Invalid system type"
	}
	if r.ContactPhone != nil && *r.ContactPhone != "" && !validation.IsValidPhone(*r.ContactPhone) {
		errors["contact_phone"] = "Invalid phone number"
	}
	if r.ContactEmail != nil && *r.ContactEmail != "" && !validation.IsValidEmail(*r.ContactEmail) {
		errors["contact_email"] = "Invalid email address"
	}
	return errors
}

// load returns the singleton row, creating a default record on first use.
func (h *SystemHandler) load() (*models.WaterSystem, error) {
	var system models.WaterSystem
	err := h.db.First(&system).Error
	if err == gorm.ErrRecordNotFound {
		system = models.WaterSystem{
			Name:       "Water System",
			PWSID:      "XX0000000",
			SystemType: models.SystemCommunity,
		}
		if err := h.db.Create(&system).Error; err != nil {
			return nil, err
		}
		return &system, nil
	}
	if err != nil {
		return nil, err
	}
	return &system, nil
}

// Get handles GET /api/v1/system
func (h *SystemHandler) Get(w http.ResponseWriter, r *http.Request) {
	system, err := h.load()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load water system"})
		return
	}
	writeJSON(w, http.StatusOK, system)
}

// Update handles PUT /api/v1/system
func (h *SystemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSystemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	system, err := h.load()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load water system"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PWSID != nil {
		updates["pws_id"] = *req.PWSID
	}
	if req.Population != nil {
		updates["population"] = *req.Population
	}
	if req.ServiceConnections != nil {
		updates["service_connections"] = *req.ServiceConnections
	}
	if req.SystemType != nil {
		updates["system_type"] = models.SystemType(*req.SystemType)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.ContactName != nil {
		updates["contact_name"] = *req.ContactName
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := h.db.Model(system).Updates(updates).Error; err != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update water system"})
			return
		}
	}

	system, err = h.load()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load water system"})
		return
	}
	writeJSON(w, http.StatusOK, system)
}

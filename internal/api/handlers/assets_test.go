package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mwhite/waterline/internal/api/handlers"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAssetTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	r := chi.NewRouter()
	handler := handlers.NewAssetHandler(db)
	r.Route("/api/v1/assets", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})

	return r, db
}

func TestAssetHandler_Create(t *testing.T) {
	router, _ := setupAssetTestRouter(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "create storage tank",
			body: map[string]interface{}{
				"name":              "Hillcrest Storage Tank",
				"category":          "storage",
				"install_date":      "1985-09-01",
				"expected_lifespan": 60,
				"condition":         "poor",
				"replacement_cost":  1200000,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "create well with optional fields",
			body: map[string]interface{}{
				"name":              "Well #2",
				"category":          "source",
				"install_date":      "1998-06-15",
				"expected_lifespan": 40,
				"condition":         "fair",
				"replacement_cost":  425000,
				"manufacturer":      "Layne",
				"next_inspection":   "2026-11-01",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing name",
			body: map[string]interface{}{
				"category":          "storage",
				"install_date":      "1985-09-01",
				"expected_lifespan": 60,
				"condition":         "poor",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid category",
			body: map[string]interface{}{
				"name":              "Mystery Asset",
				"category":          "spaceship",
				"install_date":      "1985-09-01",
				"expected_lifespan": 60,
				"condition":         "poor",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "zero lifespan",
			body: map[string]interface{}{
				"name":              "Bad Lifespan",
				"category":          "storage",
				"install_date":      "1985-09-01",
				"expected_lifespan": 0,
				"condition":         "poor",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "malformed install date",
			body: map[string]interface{}{
				"name":              "Bad Date",
				"category":          "storage",
				"install_date":      "09/01/1985",
				"expected_lifespan": 60,
				"condition":         "poor",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "negative replacement cost",
			body: map[string]interface{}{
				"name":              "Bad Cost",
				"category":          "storage",
				"install_date":      "1985-09-01",
				"expected_lifespan": 60,
				"condition":         "poor",
				"replacement_cost":  -1,
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, "POST", "/api/v1/assets", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code, "body: %s", rr.Body.String())
		})
	}
}

func TestAssetHandler_GetDerivedFields(t *testing.T) {
	router, db := setupAssetTestRouter(t)

	asset := testutil.CreateTestAsset(t, db, func(a *models.Asset) {
		a.InstallDate = "1990-01-01"
		a.ExpectedLifespan = 20
	})

	req := testutil.JSONRequest(t, "GET", "/api/v1/assets/"+asset.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.AssetResponse
	testutil.ParseJSONResponse(t, rr, &resp)

	// Installed well past its expected lifespan.
	assert.GreaterOrEqual(t, resp.Age, 30)
	assert.Equal(t, 0, resp.RemainingLife)
	assert.Equal(t, 100, resp.LifeUsedPercent)
}

func TestAssetHandler_List(t *testing.T) {
	router, db := setupAssetTestRouter(t)

	testutil.CreateTestAsset(t, db, func(a *models.Asset) { a.Category = models.CategoryStorage })
	testutil.CreateTestAsset(t, db, func(a *models.Asset) { a.Category = models.CategoryStorage })
	testutil.CreateTestAsset(t, db, func(a *models.Asset) {
		a.Category = models.CategoryPumping
		a.Condition = models.ConditionCritical
	})

	tests := []struct {
		name      string
		query     string
		wantTotal int64
	}{
		{"all assets", "", 3},
		{"filter by category", "?category=storage", 2},
		{"filter by condition", "?condition=critical", 1},
		{"no matches", "?category=hydrants", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, "GET", "/api/v1/assets"+tt.query, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)

			var resp struct {
				Total int64 `json:"total"`
			}
			testutil.ParseJSONResponse(t, rr, &resp)
			assert.Equal(t, tt.wantTotal, resp.Total)
		})
	}
}

func TestAssetHandler_Update(t *testing.T) {
	router, db := setupAssetTestRouter(t)

	asset := testutil.CreateTestAsset(t, db)

	req := testutil.JSONRequest(t, "PUT", "/api/v1/assets/"+asset.ID.String(), map[string]interface{}{
		"name":             "Renamed Tank",
		"replacement_cost": 250000,
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.AssetResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "Renamed Tank", resp.Name)
	assert.Equal(t, 250000.0, resp.ReplacementCost)

	// Condition is untouched: only assessments change it.
	assert.Equal(t, string(asset.Condition), resp.Condition)
}

func TestAssetHandler_DeleteCascades(t *testing.T) {
	router, db := setupAssetTestRouter(t)

	asset := testutil.CreateTestAsset(t, db)
	testutil.CreateTestTask(t, db, asset.ID)
	testutil.CreateTestTask(t, db, asset.ID)

	other := testutil.CreateTestAsset(t, db)
	kept := testutil.CreateTestTask(t, db, other.ID)

	req := testutil.JSONRequest(t, "DELETE", "/api/v1/assets/"+asset.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var assetCount, taskCount int64
	db.Model(&models.Asset{}).Count(&assetCount)
	db.Model(&models.MaintenanceTask{}).Count(&taskCount)
	assert.Equal(t, int64(1), assetCount)
	assert.Equal(t, int64(1), taskCount)

	var remaining models.MaintenanceTask
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, kept.ID, remaining.ID)
}

func TestAssetHandler_GetNotFound(t *testing.T) {
	router, _ := setupAssetTestRouter(t)

	req := testutil.JSONRequest(t, "GET", "/api/v1/assets/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

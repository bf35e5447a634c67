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

func setupSystemTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	r := chi.NewRouter()
	handler := handlers.NewSystemHandler(db)
	r.Get("/api/v1/system", handler.Get)
	r.Put("/api/v1/system", handler.Update)

	return r, db
}

func TestSystemHandler_GetCreatesDefault(t *testing.T) {
	router, db := setupSystemTestRouter(t)

	req := testutil.JSONRequest(t, "GET", "/api/v1/system", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var system models.WaterSystem
	testutil.ParseJSONResponse(t, rr, &system)
	assert.Equal(t, "Water System", system.Name)
	assert.Equal(t, models.SystemCommunity, system.SystemType)

	// Repeated reads reuse the singleton row.
	router.ServeHTTP(httptest.NewRecorder(), testutil.JSONRequest(t, "GET", "/api/v1/system", nil))
	var count int64
	db.Model(&models.WaterSystem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSystemHandler_Update(t *testing.T) {
	router, _ := setupSystemTestRouter(t)

	req := testutil.JSONRequest(t, "PUT", "/api/v1/system", map[string]interface{}{
		"name":                "Cedar Valley Water District",
		"pws_id":              "CO1234567",
		"population":          8200,
		"service_connections": 3100,
		"contact_email":       "ops@cedarvalleywater.example",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var system models.WaterSystem
	testutil.ParseJSONResponse(t, rr, &system)
	assert.Equal(t, "Cedar Valley Water District", system.Name)
	assert.Equal(t, "CO1234567", system.PWSID)
	assert.Equal(t, 8200, system.Population)
}

func TestSystemHandler_UpdateValidation(t *testing.T) {
	router, _ := setupSystemTestRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"bad pws id", map[string]interface{}{"pws_id": "12345"}},
		{"negative population", map[string]interface{}{"population": -1}},
		{"bad email", map[string]interface{}{"contact_email": "not-an-email"}},
		{"bad system type", map[string]interface{}{"system_type": "municipal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, "PUT", "/api/v1/system", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

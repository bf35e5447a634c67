package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mwhite/waterline/internal/api/handlers"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTaskTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	r := chi.NewRouter()
	handler := handlers.NewTaskHandler(db)
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Put("/{id}/status", handler.Transition)
		r.Delete("/{id}", handler.Delete)
	})

	return r, db
}

func TestTaskHandler_Create(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid task",
			body: map[string]interface{}{
				"asset_id":       asset.ID.String(),
				"title":          "Annual tank inspection",
				"type":           "inspection",
				"priority":       "medium",
				"scheduled_date": "2027-03-01",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unknown asset",
			body: map[string]interface{}{
				"asset_id":       "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
				"title":          "Orphan task",
				"type":           "inspection",
				"priority":       "medium",
				"scheduled_date": "2027-03-01",
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"asset_id":       asset.ID.String(),
				"type":           "inspection",
				"priority":       "medium",
				"scheduled_date": "2027-03-01",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid priority",
			body: map[string]interface{}{
				"asset_id":       asset.ID.String(),
				"title":          "Bad priority",
				"type":           "inspection",
				"priority":       "urgent-ish",
				"scheduled_date": "2027-03-01",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "malformed date",
			body: map[string]interface{}{
				"asset_id":       asset.ID.String(),
				"title":          "Bad date",
				"type":           "inspection",
				"priority":       "medium",
				"scheduled_date": "next tuesday",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, "POST", "/api/v1/tasks", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code, "body: %s", rr.Body.String())
		})
	}
}

func TestTaskHandler_CreateStartsScheduled(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)

	req := testutil.JSONRequest(t, "POST", "/api/v1/tasks", map[string]interface{}{
		"asset_id":       asset.ID.String(),
		"title":          "Pump overhaul",
		"type":           "corrective",
		"priority":       "high",
		"scheduled_date": "2027-06-01",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp handlers.TaskResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, string(models.StatusScheduled), resp.Status)
	assert.Equal(t, string(models.StatusScheduled), resp.EffectiveStatus)
	assert.Equal(t, asset.Name, resp.AssetName)
}

func TestTaskHandler_EffectiveStatusOverdue(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)

	task := testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
		task.ScheduledDate = time.Now().AddDate(0, 0, -10).Format(models.DateLayout)
	})

	req := testutil.JSONRequest(t, "GET", "/api/v1/tasks/"+task.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.TaskResponse
	testutil.ParseJSONResponse(t, rr, &resp)

	// Persisted status is untouched; overdue only appears in the overlay.
	assert.Equal(t, string(models.StatusScheduled), resp.Status)
	assert.Equal(t, string(models.StatusOverdue), resp.EffectiveStatus)

	var stored models.MaintenanceTask
	require.NoError(t, db.First(&stored, "id = ?", task.ID).Error)
	assert.Equal(t, models.StatusScheduled, stored.Status)
}

func TestTaskHandler_ListStatusFilters(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)

	// One overdue, one upcoming, one completed.
	testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
		task.ScheduledDate = time.Now().AddDate(0, 0, -30).Format(models.DateLayout)
	})
	testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
		task.ScheduledDate = time.Now().AddDate(0, 0, 30).Format(models.DateLayout)
	})
	testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
		task.Status = models.StatusCompleted
		task.ScheduledDate = time.Now().AddDate(0, 0, -60).Format(models.DateLayout)
	})

	tests := []struct {
		name      string
		query     string
		wantTotal int64
	}{
		{"all tasks", "", 3},
		{"overdue filter", "?status=overdue", 1},
		{"scheduled filter excludes overdue", "?status=scheduled", 1},
		{"completed filter", "?status=completed", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, "GET", "/api/v1/tasks"+tt.query, nil)
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

func TestTaskHandler_Transition(t *testing.T) {
	tests := []struct {
		name       string
		from       models.MaintenanceStatus
		to         string
		wantStatus int
	}{
		{"scheduled to in_progress", models.StatusScheduled, "in_progress", http.StatusOK},
		{"scheduled to completed", models.StatusScheduled, "completed", http.StatusOK},
		{"scheduled to cancelled", models.StatusScheduled, "cancelled", http.StatusOK},
		{"in_progress to completed", models.StatusInProgress, "completed", http.StatusOK},
		{"in_progress to scheduled", models.StatusInProgress, "scheduled", http.StatusConflict},
		{"completed is terminal", models.StatusCompleted, "in_progress", http.StatusConflict},
		{"cancelled is terminal", models.StatusCancelled, "scheduled", http.StatusConflict},
		{"overdue is not persistable", models.StatusScheduled, "overdue", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, db := setupTaskTestRouter(t)
			asset := testutil.CreateTestAsset(t, db)
			task := testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
				task.Status = tt.from
			})

			req := testutil.JSONRequest(t, "PUT", "/api/v1/tasks/"+task.ID.String()+"/status", map[string]interface{}{
				"status": tt.to,
			})
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code, "body: %s", rr.Body.String())
		})
	}
}

func TestTaskHandler_TransitionOverdueTaskStillWorks(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)

	// A long-overdue task can still be started: the overlay never blocks
	// the persisted state machine.
	task := testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
		task.ScheduledDate = time.Now().AddDate(0, -6, 0).Format(models.DateLayout)
	})

	req := testutil.JSONRequest(t, "PUT", "/api/v1/tasks/"+task.ID.String()+"/status", map[string]interface{}{
		"status": "in_progress",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.TaskResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, string(models.StatusInProgress), resp.Status)
	assert.Equal(t, string(models.StatusInProgress), resp.EffectiveStatus)
}

func TestTaskHandler_CompletionRecordsDateAndCost(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)
	task := testutil.CreateTestTask(t, db, asset.ID, func(task *models.MaintenanceTask) {
		task.Status = models.StatusInProgress
	})

	req := testutil.JSONRequest(t, "PUT", "/api/v1/tasks/"+task.ID.String()+"/status", map[string]interface{}{
		"status":      "completed",
		"actual_cost": 4250.50,
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.TaskResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	require.NotNil(t, resp.CompletedDate)
	assert.Equal(t, time.Now().Format(models.DateLayout), *resp.CompletedDate)
	require.NotNil(t, resp.ActualCost)
	assert.Equal(t, 4250.50, *resp.ActualCost)

	// Completed tasks are immune to the overdue overlay even when the
	// scheduled date is in the past.
	assert.Equal(t, string(models.StatusCompleted), resp.EffectiveStatus)
}

func TestTaskHandler_Delete(t *testing.T) {
	router, db := setupTaskTestRouter(t)
	asset := testutil.CreateTestAsset(t, db)
	task := testutil.CreateTestTask(t, db, asset.ID)

	req := testutil.JSONRequest(t, "DELETE", "/api/v1/tasks/"+task.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = testutil.JSONRequest(t, "DELETE", "/api/v1/tasks/"+task.ID.String(), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

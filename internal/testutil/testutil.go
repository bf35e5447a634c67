package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwhite/waterline/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.WaterSystem{},
		&models.Asset{},
		&models.MaintenanceTask{},
		&models.ConditionAssessment{},
		&models.MaintenanceSchedule{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestAsset creates an asset with sensible defaults, applying any
// modifiers in order.
func CreateTestAsset(t *testing.T, db *gorm.DB, mods ...func(*models.Asset)) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:             "Test Asset " + uuid.New().String()[:8],
		Category:         models.CategoryStorage,
		InstallDate:      "2010-01-01",
		ExpectedLifespan: 40,
		Condition:        models.ConditionGood,
		ReplacementCost:  100000,
	}
	for _, mod := range mods {
		mod(asset)
	}

	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}

	return asset
}

// CreateTestTask creates a maintenance task against the given asset.
func CreateTestTask(t *testing.T, db *gorm.DB, assetID uuid.UUID, mods ...func(*models.MaintenanceTask)) *models.MaintenanceTask {
	t.Helper()

	task := &models.MaintenanceTask{
		Base: models.Base{
			ID: uuid.New(),
		},
		AssetID:       assetID,
		Title:         "Test Task " + uuid.New().String()[:8],
		Type:          models.TypePreventive,
		Priority:      models.PriorityMedium,
		Status:        models.StatusScheduled,
		ScheduledDate: time.Now().AddDate(0, 0, 14).Format(models.DateLayout),
	}
	for _, mod := range mods {
		mod(task)
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// JSONRequest creates an HTTP request with a JSON body
func JSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

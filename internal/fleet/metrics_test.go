package fleet_test

import (
	"testing"

	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/internal/fleet"
	"github.com/stretchr/testify/assert"
)

func TestComputeEmpty(t *testing.T) {
	m := fleet.Compute(nil, nil, now)

	assert.Equal(t, 0, m.TotalAssets)
	assert.Equal(t, 0.0, m.TotalReplacementValue)
	assert.Equal(t, 0, m.UpcomingMaintenance)
	assert.Equal(t, 0, m.OverdueMaintenance)
	assert.Equal(t, 0, m.AssetsNeedingAttention)

	// Every bucket is present with an explicit zero.
	assert.Len(t, m.AssetsByCategory, 10)
	for _, cat := range models.AllCategories() {
		count, ok := m.AssetsByCategory[cat]
		assert.True(t, ok, "category %s missing", cat)
		assert.Equal(t, 0, count)
	}
	assert.Len(t, m.AssetsByCondition, 5)
	for _, cond := range models.AllConditions() {
		count, ok := m.AssetsByCondition[cond]
		assert.True(t, ok, "condition %s missing", cond)
		assert.Equal(t, 0, count)
	}
}

func TestComputeAssets(t *testing.T) {
	assets := []models.Asset{
		{Category: models.CategoryStorage, Condition: models.ConditionPoor, ReplacementCost: 1000},
		{Category: models.CategoryStorage, Condition: models.ConditionGood, ReplacementCost: 500},
	}

	m := fleet.Compute(assets, nil, now)

	assert.Equal(t, 2, m.TotalAssets)
	assert.Equal(t, 2, m.AssetsByCategory[models.CategoryStorage])
	assert.Equal(t, 0, m.AssetsByCategory[models.CategorySource])
	assert.Equal(t, 1, m.AssetsByCondition[models.ConditionPoor])
	assert.Equal(t, 1, m.AssetsByCondition[models.ConditionGood])
	assert.Equal(t, 1500.0, m.TotalReplacementValue)
	assert.Equal(t, 1, m.AssetsNeedingAttention)
}

func TestComputeAttentionCounts(t *testing.T) {
	assets := []models.Asset{
		{Category: models.CategoryValves, Condition: models.ConditionCritical},
		{Category: models.CategoryValves, Condition: models.ConditionPoor},
		{Category: models.CategoryValves, Condition: models.ConditionFair},
		{Category: models.CategoryValves, Condition: models.ConditionExcellent},
	}

	m := fleet.Compute(assets, nil, now)
	assert.Equal(t, 2, m.AssetsNeedingAttention)
}

func TestComputeTasks(t *testing.T) {
	tasks := []models.MaintenanceTask{
		// scheduled in the future: upcoming
		{Status: models.StatusScheduled, ScheduledDate: "2026-02-01"},
		{Status: models.StatusScheduled, ScheduledDate: "2026-06-15"},
		// scheduled in the past: overdue
		{Status: models.StatusScheduled, ScheduledDate: "2025-12-01"},
		// terminal or active states count as neither
		{Status: models.StatusCompleted, ScheduledDate: "2025-12-01"},
		{Status: models.StatusCancelled, ScheduledDate: "2026-02-01"},
		{Status: models.StatusInProgress, ScheduledDate: "2025-11-01"},
	}

	m := fleet.Compute(nil, tasks, now)

	assert.Equal(t, 2, m.UpcomingMaintenance)
	assert.Equal(t, 1, m.OverdueMaintenance)
}

func TestComputeLegacyOverdueStatus(t *testing.T) {
	// Rows persisted as overdue by older versions still count once.
	tasks := []models.MaintenanceTask{
		{Status: models.StatusOverdue, ScheduledDate: "2025-12-01"},
	}

	m := fleet.Compute(nil, tasks, now)
	assert.Equal(t, 1, m.OverdueMaintenance)
	assert.Equal(t, 0, m.UpcomingMaintenance)
}

func TestComputeIdempotent(t *testing.T) {
	assets := []models.Asset{
		{Category: models.CategoryPumping, Condition: models.ConditionFair, ReplacementCost: 180000},
		{Category: models.CategorySource, Condition: models.ConditionCritical, ReplacementCost: 425000},
	}
	tasks := []models.MaintenanceTask{
		{Status: models.StatusScheduled, ScheduledDate: "2026-02-01"},
		{Status: models.StatusScheduled, ScheduledDate: "2025-12-01"},
	}

	first := fleet.Compute(assets, tasks, now)
	second := fleet.Compute(assets, tasks, now)

	assert.Equal(t, first, second)
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	assets := []models.Asset{
		{Category: models.CategoryStorage, Condition: models.ConditionPoor, ReplacementCost: 1000},
	}
	tasks := []models.MaintenanceTask{
		{Status: models.StatusScheduled, ScheduledDate: "2025-12-01"},
	}

	fleet.Compute(assets, tasks, now)

	assert.Equal(t, models.ConditionPoor, assets[0].Condition)
	assert.Equal(t, models.StatusScheduled, tasks[0].Status)
	assert.Equal(t, "2025-12-01", tasks[0].ScheduledDate)
}

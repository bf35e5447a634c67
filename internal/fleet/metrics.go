package fleet

import (
	"time"

	"github.com/mwhite/waterline/internal/database/models"
)

// Metrics is the fleet summary behind the dashboard and reports. It is
// recomputed in full from the asset and task collections on every call and
// holds no state of its own, so it can never drift from its inputs.
type Metrics struct {
	TotalAssets            int                            `json:"total_assets"`
	AssetsByCategory       map[models.AssetCategory]int   `json:"assets_by_category"`
	AssetsByCondition      map[models.AssetCondition]int  `json:"assets_by_condition"`
	TotalReplacementValue  float64                        `json:"total_replacement_value"`
	UpcomingMaintenance    int                            `json:"upcoming_maintenance"`
	OverdueMaintenance     int                            `json:"overdue_maintenance"`
	AssetsNeedingAttention int                            `json:"assets_needing_attention"`
}

// Compute folds the full asset and task snapshots into Metrics. One now is
// used for the whole pass so every item sees the same instant.
//
// Overdue is derived uniformly through EffectiveStatus (scheduled + past
// date); upcoming is a scheduled task with a strictly future date. Assets
// in poor or critical condition need attention.
func Compute(assets []models.Asset, tasks []models.MaintenanceTask, now time.Time) Metrics {
	m := Metrics{
		AssetsByCategory:  make(map[models.AssetCategory]int, 10),
		AssetsByCondition: make(map[models.AssetCondition]int, 5),
	}

	// Zero every bucket so empty categories and conditions are reported
	// as 0, not absent.
	for _, cat := range models.AllCategories() {
		m.AssetsByCategory[cat] = 0
	}
	for _, cond := range models.AllConditions() {
		m.AssetsByCondition[cond] = 0
	}

	for i := range assets {
		a := &assets[i]
		m.TotalAssets++
		m.AssetsByCategory[a.Category]++
		m.AssetsByCondition[a.Condition]++
		m.TotalReplacementValue += a.ReplacementCost
		if a.Condition == models.ConditionPoor || a.Condition == models.ConditionCritical {
			m.AssetsNeedingAttention++
		}
	}

	for i := range tasks {
		t := &tasks[i]
		switch EffectiveTaskStatus(t, now) {
		case models.StatusOverdue:
			m.OverdueMaintenance++
		case models.StatusScheduled:
			if isFuture(t.ScheduledDate, now) {
				m.UpcomingMaintenance++
			}
		}
	}

	return m
}

package fleet

import "github.com/mwhite/waterline/internal/database/models"

// Trend classifies a condition transition between two assessments.
type Trend string

const (
	TrendImproved  Trend = "improved"
	TrendDeclined  Trend = "declined"
	TrendUnchanged Trend = "unchanged"
)

// conditionRank fixes the total order of the five-level scale. The scale is
// closed; a new condition value is a breaking schema change, so this is
// deliberately not data-driven.
var conditionRank = map[models.AssetCondition]int{
	models.ConditionCritical:  0,
	models.ConditionPoor:      1,
	models.ConditionFair:      2,
	models.ConditionGood:      3,
	models.ConditionExcellent: 4,
}

// ClassifyTrend compares two conditions on the fixed scale. Equal values
// (including two unknown values) are unchanged.
func ClassifyTrend(previous, next models.AssetCondition) Trend {
	prev, nxt := conditionRank[previous], conditionRank[next]
	switch {
	case nxt > prev:
		return TrendImproved
	case nxt < prev:
		return TrendDeclined
	default:
		return TrendUnchanged
	}
}

package models

// AssetCondition is the fixed five-level condition rating,
// ordered critical < poor < fair < good < excellent.
type AssetCondition string

const (
	ConditionCritical  AssetCondition = "critical"
	ConditionPoor      AssetCondition = "poor"
	ConditionFair      AssetCondition = "fair"
	ConditionGood      AssetCondition = "good"
	ConditionExcellent AssetCondition = "excellent"
)

// AllConditions lists the scale from worst to best.
func AllConditions() []AssetCondition {
	return []AssetCondition{
		ConditionCritical, ConditionPoor, ConditionFair, ConditionGood, ConditionExcellent,
	}
}

func (c AssetCondition) IsValid() bool {
	switch c {
	case ConditionCritical, ConditionPoor, ConditionFair, ConditionGood, ConditionExcellent:
		return true
	}
	return false
}

package models

type AssetCategory string

const (
	CategorySource       AssetCategory = "source"       // wells, springs, surface water intakes
	CategoryTreatment    AssetCategory = "treatment"    // treatment plants, chemical feed systems
	CategoryStorage      AssetCategory = "storage"      // tanks, reservoirs, standpipes
	CategoryDistribution AssetCategory = "distribution" // pipes, mains
	CategoryPumping      AssetCategory = "pumping"      // pump stations, booster pumps
	CategoryMetering     AssetCategory = "metering"     // flow meters, customer meters
	CategoryHydrants     AssetCategory = "hydrants"
	CategoryValves       AssetCategory = "valves" // gate valves, PRVs, air release valves
	CategoryElectrical   AssetCategory = "electrical" // SCADA, control systems, generators
	CategoryOther        AssetCategory = "other"
)

// AllCategories lists every asset category. The set is closed; adding a
// value is a schema change.
func AllCategories() []AssetCategory {
	return []AssetCategory{
		CategorySource, CategoryTreatment, CategoryStorage, CategoryDistribution,
		CategoryPumping, CategoryMetering, CategoryHydrants, CategoryValves,
		CategoryElectrical, CategoryOther,
	}
}

func (c AssetCategory) IsValid() bool {
	switch c {
	case CategorySource, CategoryTreatment, CategoryStorage, CategoryDistribution,
		CategoryPumping, CategoryMetering, CategoryHydrants, CategoryValves,
		CategoryElectrical, CategoryOther:
		return true
	}
	return false
}

// Asset is a physical piece of water-system infrastructure.
type Asset struct {
	Base
	Name        string        `gorm:"size:255;not null" json:"name"`
	Category    AssetCategory `gorm:"size:32;not null;index" json:"category"`
	Description string        `json:"description"`
	Location    string        `gorm:"size:255" json:"location"`

	// Lifecycle
	InstallDate      string         `gorm:"size:10;not null" json:"install_date"` // YYYY-MM-DD
	ExpectedLifespan int            `gorm:"not null" json:"expected_lifespan"`    // years, > 0
	Condition        AssetCondition `gorm:"size:16;not null;index" json:"condition"`
	LastInspection   *string        `gorm:"size:10" json:"last_inspection,omitempty"`
	NextInspection   *string        `gorm:"size:10" json:"next_inspection,omitempty"`

	ReplacementCost float64 `gorm:"not null" json:"replacement_cost"` // USD

	// Optional detail; nil means not recorded, distinct from recorded-as-empty
	Manufacturer *string `gorm:"size:255" json:"manufacturer,omitempty"`
	Model        *string `gorm:"size:255" json:"model,omitempty"`
	SerialNumber *string `gorm:"size:255" json:"serial_number,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	// Relationships
	Tasks       []MaintenanceTask     `gorm:"foreignKey:AssetID" json:"-"`
	Assessments []ConditionAssessment `gorm:"foreignKey:AssetID" json:"-"`
	Schedules   []MaintenanceSchedule `gorm:"foreignKey:AssetID" json:"-"`
}

func (Asset) TableName() string {
	return "assets"
}

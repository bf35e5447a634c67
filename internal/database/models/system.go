package models

type SystemType string

const (
	SystemCommunity    SystemType = "community"
	SystemNonTransient SystemType = "non-transient"
	SystemTransient    SystemType = "transient"
)

func (t SystemType) IsValid() bool {
	switch t {
	case SystemCommunity, SystemNonTransient, SystemTransient:
		return true
	}
	return false
}

// WaterSystem holds the public water system's own record. There is exactly
// one row; handlers create it with defaults on first read.
type WaterSystem struct {
	Base
	Name               string     `gorm:"size:255;not null" json:"name"`
	PWSID              string     `gorm:"size:32;not null" json:"pws_id"` // regulatory Public Water System ID
	Population         int        `json:"population"`
	ServiceConnections int        `json:"service_connections"`
	SystemType         SystemType `gorm:"size:16;not null" json:"system_type"`

	Address      string `gorm:"size:255" json:"address"`
	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactPhone string `gorm:"size:32" json:"contact_phone"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`
}

func (WaterSystem) TableName() string {
	return "water_system"
}

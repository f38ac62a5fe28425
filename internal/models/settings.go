package models

import "time"

// SystemSettings stores global configuration toggles
type SystemSettings struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

// System setting keys
const (
	SettingMaintenanceMode  = "maintenance_mode"
	SettingRegistrationOpen = "registration_open"
	SettingEnrollmentOpen   = "enrollment_open"
)

// KnownSettings lists the keys an admin may toggle.
var KnownSettings = []string{
	SettingMaintenanceMode,
	SettingRegistrationOpen,
	SettingEnrollmentOpen,
}

func IsKnownSetting(key string) bool {
	for _, k := range KnownSettings {
		if k == key {
			return true
		}
	}
	return false
}

package models

import (
	"gorm.io/gorm"
)

// SystemConfig is a singleton row of org-wide settings. Changes take effect on
// the next generation/commit cycle; the core never caches it.
type SystemConfig struct {
	gorm.Model
	ZoomEnabled       bool   `gorm:"default:true" json:"zoomEnabled"`
	InPersonEnabled   bool   `gorm:"default:true" json:"inPersonEnabled"`
	BufferTimeMinutes int    `gorm:"default:90" json:"bufferTimeMinutes"`
	CompanyName       string `gorm:"default:'RAU Scheduling'" json:"companyName"`
	ReminderHours     int    `gorm:"default:24" json:"reminderHours"`
}

func (SystemConfig) TableName() string {
	return "system_config"
}

// GetSystemConfig returns the singleton config row, creating it with defaults
// on first use.
func GetSystemConfig(db *gorm.DB) (*SystemConfig, error) {
	var cfg SystemConfig
	if err := db.First(&cfg).Error; err == nil {
		return &cfg, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	cfg = SystemConfig{
		ZoomEnabled:       true,
		InPersonEnabled:   true,
		BufferTimeMinutes: 90,
		CompanyName:       "RAU Scheduling",
		ReminderHours:     24,
	}
	if err := db.Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

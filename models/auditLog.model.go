package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records every create/update/status change of the core entities
// with a structured change payload. Writes are at-least-once and asynchronous;
// a failed audit write never blocks the operation that produced it.
type AuditLog struct {
	gorm.Model
	UserID     *uint          `json:"userId"` // nil for system actions
	User       *User          `gorm:"foreignKey:UserID" json:"-"`
	Action     string         `gorm:"not null" json:"action"` // create, update, delete, finalize, login, logout
	EntityType string         `gorm:"not null" json:"entityType"`
	EntityID   uint           `gorm:"not null" json:"entityId"`
	Changes    datatypes.JSON `json:"changes"`
	IPAddress  string         `gorm:"default:''" json:"ipAddress"`
	UserAgent  string         `gorm:"default:''" json:"userAgent"`
}

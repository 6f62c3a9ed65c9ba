package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"default:''"`
	BusinessName string `gorm:"default:''"`
	Email        string `gorm:"default:''"`
	PhoneNumber  string `gorm:"default:''"`
	Notes        string `gorm:"default:''"`
	CreatedByID  *uint
	CreatedBy    *User `gorm:"foreignKey:CreatedByID"`
	IsDeleted    bool  `gorm:"default:false"`
}

func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

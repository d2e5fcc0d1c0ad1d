package models

import "gorm.io/gorm"

// Vessel is a serving glass referenced by cocktails.
type Vessel struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	NameKey     string `gorm:"uniqueIndex;not null" json:"-"`
	Description string `gorm:"type:text" json:"description"`
	Source      string `gorm:"type:varchar(16);not null;default:user" json:"source"`
}

func (v *Vessel) BeforeSave(tx *gorm.DB) error {
	v.NameKey = NameKey(v.Name)
	return nil
}

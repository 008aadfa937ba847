package models

import (
	"strings"

	"gorm.io/gorm"
)

// Tag is reference data used to label recipes.
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

// Ingredient is reference data. The (name, unit) pair is deduplicated at load
// time only; the schema does not enforce it.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null" json:"measurement_unit"`
	// NameLower is Name folded with Unicode rules; SQLite's LOWER only folds ASCII.
	NameLower string `gorm:"size:128;not null;default:'';index" json:"-"`
}

func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}

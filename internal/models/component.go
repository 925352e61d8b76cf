package models

import (
	"time"
)

// Component represents e.g. a microservice within a project. Provides is
// the denormalized set of interface names this component exposes; it must
// always equal the names of the interfaces stored for the component.
type Component struct {
	ComponentID string      `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string      `gorm:"size:255;not null;index:idx_component_project,unique" json:"name"`
	DisplayName string      `gorm:"size:255" json:"displayName"`
	ProjectName string      `gorm:"size:255;not null;index:idx_component_project,unique" json:"projectName"`
	Provides    Set[string] `gorm:"type:json" json:"providedInterfaceNames"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}

// TableName overrides the table name for Component
func (Component) TableName() string {
	return "components"
}

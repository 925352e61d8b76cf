package models

import (
	"time"
)

// Interface is a named interface a component offers to other components,
// e.g. REST or Messaging.
type Interface struct {
	InterfaceID   string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index:idx_interface_component,unique" json:"name"`
	DisplayName   string    `gorm:"size:255" json:"displayName"`
	Type          string    `gorm:"size:255" json:"type"`
	ComponentName string    `gorm:"size:255;not null;index:idx_interface_component,unique" json:"componentName"`
	ProjectName   string    `gorm:"size:255;not null;index:idx_interface_component,unique" json:"projectName"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// TableName overrides the table name for Interface
func (Interface) TableName() string {
	return "interfaces"
}

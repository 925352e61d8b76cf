package models

import (
	"time"
)

// Contributor is the reference a project keeps for each contributing user.
type Contributor struct {
	Username string `json:"username"`
}

// Project is a multi-component project. The owner is always also a member
// of Contributors.
type Project struct {
	ProjectID    string           `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string           `gorm:"uniqueIndex;size:255;not null" json:"name"`
	DisplayName  string           `gorm:"size:255" json:"displayName"`
	OwnerName    string           `gorm:"size:255;not null;index" json:"owner"`
	Contributors Set[Contributor] `gorm:"type:json" json:"contributors"`
	CreatedAt    time.Time        `json:"-"`
	UpdatedAt    time.Time        `json:"-"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

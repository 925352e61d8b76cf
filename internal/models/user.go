package models

import (
	"time"
)

// User is an account that can own and contribute to projects.
// ProjectNames is the denormalized membership set: every project the user
// contributes to (owned projects included) appears here, mirrored by the
// project's contributor set.
type User struct {
	UserID       string      `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Email        string      `gorm:"size:255" json:"email"`
	ProjectNames Set[string] `gorm:"type:json" json:"projectNames"`
	CreatedAt    time.Time   `json:"-"`
	UpdatedAt    time.Time   `json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

package models

import "gorm.io/gorm"

const (
	RoleAdmin    = "admin"
	RoleConsumer = "consumer"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Image        string `json:"image"`
	AccountType  string `gorm:"default:consumer" json:"accountType"` // admin, consumer

	// Routines the user joined; admins reach their own routines via CreatorID.
	Routines []*Routine        `gorm:"many2many:routine_users" json:"-"`
	Progress []RoutineProgress `gorm:"foreignKey:UserID" json:"-"`
}

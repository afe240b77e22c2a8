package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:60;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // bcrypt
	FullName     string    `json:"fullname" gorm:"size:120;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null"`
	DisplayTitle string    `json:"display_title" gorm:"size:60"` // e.g. "Bí thư 12A3"
	ClassID      *uint     `json:"class_id"`                     // only set for class-scoped roles
	Class        *Class    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

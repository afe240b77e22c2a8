package models

import "time"

type Class struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:20;not null;uniqueIndex:idx_class_name_year"`
	GradeLevel int       `json:"grade_level" gorm:"not null"` // 10, 11, 12
	SchoolYear string    `json:"school_year" gorm:"size:9;not null;uniqueIndex:idx_class_name_year"` // e.g. "2024-2025"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

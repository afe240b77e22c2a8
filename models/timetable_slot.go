package models

import "time"

// TimetableSlot is one recurring weekly lesson: a class, a teacher,
// a day-of-week (1 = Monday .. 7 = Sunday) and a period number.
type TimetableSlot struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ClassID      uint      `json:"class_id" gorm:"not null;index"`
	Class        Class     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	TeacherID    uint      `json:"teacher_id" gorm:"not null;index"`
	Teacher      User      `json:"-" gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	DayOfWeek    int       `json:"day_of_week" gorm:"not null"`   // 1-7
	PeriodNumber int       `json:"period_number" gorm:"not null"` // 1-10
	SubjectName  string    `json:"subject_name" gorm:"size:60;not null"`
	Semester     int       `json:"semester" gorm:"not null;default:1"`
	SchoolYear   string    `json:"school_year" gorm:"size:9;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

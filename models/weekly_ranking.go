package models

import "time"

// WeeklyRanking is the persisted aggregation result: one row per
// (class, ISO week), fully recomputed and overwritten on every run.
// totalPoints = 100 + logbookPoints + violationPoints.
type WeeklyRanking struct {
	ID         uint  `json:"id" gorm:"primaryKey"`
	ClassID    uint  `json:"class_id" gorm:"not null;uniqueIndex:idx_ranking_class_week"`
	Class      Class `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	WeekNumber int   `json:"week_number" gorm:"not null;uniqueIndex:idx_ranking_class_week"`

	TotalPoints   int `json:"total_points" gorm:"not null"`
	LogbookPoints int `json:"logbook_points" gorm:"not null"`
	// ViolationPoints carries both out-of-class deductions and bonus
	// points from approved reports, summed into one figure.
	ViolationPoints int `json:"violation_points" gorm:"not null"`

	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

// RuleCategory decides which aggregation bucket a rule feeds:
// in-class rules come from the logbook, out-of-class and bonus rules
// from approved violation reports.
type RuleCategory string

const (
	CategoryInClass    RuleCategory = "in_class"
	CategoryOutOfClass RuleCategory = "out_of_class"
	CategoryBonus      RuleCategory = "bonus"
)

func (c RuleCategory) Valid() bool {
	switch c {
	case CategoryInClass, CategoryOutOfClass, CategoryBonus:
		return true
	}
	return false
}

// RuleType is admin-managed reference data. PointDelta is signed:
// negative for deductions, positive for bonus points.
type RuleType struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Description string       `json:"description" gorm:"size:255;not null"`
	PointDelta  int          `json:"point_delta" gorm:"not null"`
	Category    RuleCategory `json:"category" gorm:"size:20;not null"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

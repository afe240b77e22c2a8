package models

import "time"

// LogbookEntry is a teacher's sign-off for one lesson in one ISO week.
// Unique on (timetable_id, week_number): re-signing the same lesson
// overwrites the previous entry in place.
type LogbookEntry struct {
	ID          uint          `json:"entry_id" gorm:"primaryKey"`
	TimetableID uint          `json:"timetable_id" gorm:"not null;uniqueIndex:idx_logbook_slot_week"`
	Slot        TimetableSlot `json:"-" gorm:"foreignKey:TimetableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	WeekNumber  int           `json:"week_number" gorm:"not null;uniqueIndex:idx_logbook_slot_week"`

	// Denormalized from the slot so aggregation never needs the join.
	ClassID   uint  `json:"class_id" gorm:"not null;index"`
	Class     Class `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	TeacherID uint  `json:"teacher_id" gorm:"not null;index"`

	EntryDate     string    `json:"entry_date" gorm:"size:10;not null"` // YYYY-MM-DD, derived from week + slot day
	LessonContent string    `json:"lesson_content" gorm:"type:text"`
	Notes         string    `json:"notes" gorm:"type:text"`
	Attendance    string    `json:"attendance" gorm:"size:255"`
	GraderID      uint      `json:"grader_id" gorm:"not null"`
	Grader        User      `json:"-" gorm:"foreignKey:GraderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	SignedAt      time.Time `json:"signed_at"`

	Violations []LogbookViolation `json:"violations,omitempty" gorm:"foreignKey:EntryID"`
}

// LogbookViolation links a signed entry to an in-class rule. The link
// set is replaced wholesale on every sign.
type LogbookViolation struct {
	ID      uint         `json:"id" gorm:"primaryKey"`
	EntryID uint         `json:"entry_id" gorm:"not null;index"`
	RuleID  uint         `json:"rule_id" gorm:"not null"`
	Rule    RuleType     `json:"-" gorm:"foreignKey:RuleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Entry   LogbookEntry `json:"-" gorm:"foreignKey:EntryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

package models

import "time"

// ViolationStatus is the workflow state of a report. One canonical
// machine:
//
//	pending_confirmation --confirm--> pending_approval --approve--> approved
//	pending_confirmation --deny-----> denied_by_monitor --approve--> approved
//	pending_approval / denied_by_monitor --reject--> rejected
//
// The union has final authority: it may approve a report the monitor
// denied. approved and rejected are terminal.
type ViolationStatus string

const (
	StatusPendingConfirmation ViolationStatus = "pending_confirmation"
	StatusPendingApproval     ViolationStatus = "pending_approval"
	StatusDeniedByMonitor     ViolationStatus = "denied_by_monitor"
	StatusApproved            ViolationStatus = "approved"
	StatusRejected            ViolationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s ViolationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type ViolationReport struct {
	ID            uint     `json:"report_id" gorm:"primaryKey"`
	ClassID       uint     `json:"class_id" gorm:"not null;index"`
	Class         Class    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	RuleID        uint     `json:"rule_id" gorm:"not null"`
	Rule          RuleType `json:"-" gorm:"foreignKey:RuleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ReporterID    uint     `json:"reporter_id" gorm:"not null"`
	Reporter      User     `json:"-" gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Description   string   `json:"description" gorm:"type:text"`
	ViolationDate string   `json:"violation_date" gorm:"size:10;not null"` // YYYY-MM-DD
	WeekNumber    int      `json:"week_number" gorm:"not null;index"`

	Status ViolationStatus `json:"status" gorm:"size:30;not null;default:'pending_confirmation';index"`

	SecretaryResponse    *string    `json:"secretary_response"`
	SecretaryProcessedAt *time.Time `json:"secretary_processed_at"`
	UnionResponse        *string    `json:"union_response"`
	UnionProcessedAt     *time.Time `json:"union_processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/models"
)

type ViolationHandler struct {
	db *gorm.DB
}

func NewViolationHandler(db *gorm.DB) *ViolationHandler { return &ViolationHandler{db: db} }

type ReportReq struct {
	ClassID       uint   `json:"class_id" validate:"required"`
	RuleID        uint   `json:"rule_id" validate:"required"`
	Description   string `json:"description"`
	ViolationDate string `json:"violation_date" validate:"required"`
	WeekNumber    int    `json:"week_number"` // derived from the date when absent
}

type DecisionReq struct {
	Action   string `json:"action" validate:"required"`
	Feedback string `json:"feedback"`
}

// reportRow is a report joined with the display fields each review
// page needs.
type reportRow struct {
	models.ViolationReport
	ClassName       string `json:"class_name"`
	ReporterName    string `json:"reporter_name"`
	RuleDescription string `json:"rule_description"`
	RulePoints      int    `json:"rule_points"`
}

func (h *ViolationHandler) listJoined(c echo.Context, where string, args ...any) error {
	var rows []reportRow
	err := h.db.Model(&models.ViolationReport{}).
		Select(`violation_reports.*, c.name AS class_name, u.full_name AS reporter_name,
			rt.description AS rule_description, rt.point_delta AS rule_points`).
		Joins("JOIN classes c ON c.id = violation_reports.class_id").
		Joins("JOIN users u ON u.id = violation_reports.reporter_id").
		Joins("JOIN rule_types rt ON rt.id = violation_reports.rule_id").
		Where(where, args...).
		Order("violation_reports.violation_date DESC, violation_reports.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "reports": rows})
}

// POST /violations/report: red guard files a new report.
func (h *ViolationHandler) Report(c echo.Context) error {
	var req ReportReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.ViolationDate))
	if err != nil {
		return fail(c, http.StatusBadRequest, "violation_date must be YYYY-MM-DD")
	}
	week := req.WeekNumber
	if week == 0 {
		_, week = date.ISOWeek()
	}

	rep := models.ViolationReport{
		ClassID:       req.ClassID,
		RuleID:        req.RuleID,
		ReporterID:    callerID(c),
		Description:   req.Description,
		ViolationDate: date.Format(dateLayout),
		WeekNumber:    week,
		Status:        models.StatusPendingConfirmation,
	}
	if err := h.db.Create(&rep).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "unknown class or rule")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "violation reported", "report_id": rep.ID})
}

// GET /violations/my-class: reports awaiting the monitor's confirmation.
func (h *ViolationHandler) MyClass(c echo.Context) error {
	classID := callerClassID(c)
	if classID == nil {
		return fail(c, http.StatusBadRequest, "your account is not assigned to a class")
	}
	return h.listJoined(c, "violation_reports.class_id = ? AND violation_reports.status = ?",
		*classID, models.StatusPendingConfirmation)
}

// POST /violations/:id/confirm: monitor confirms or denies.
//
// The report is resolved first and its class compared to the caller's:
// acting on another class's report is a 403, not a silent no-op.
func (h *ViolationHandler) Confirm(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid report id")
	}
	var req DecisionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var newStatus models.ViolationStatus
	switch req.Action {
	case "confirm":
		newStatus = models.StatusPendingApproval
	case "deny":
		if strings.TrimSpace(req.Feedback) == "" {
			return fail(c, http.StatusBadRequest, "denying a report requires feedback")
		}
		newStatus = models.StatusDeniedByMonitor
	default:
		return fail(c, http.StatusBadRequest, "action must be confirm or deny")
	}

	var rep models.ViolationReport
	if err := h.db.First(&rep, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "report not found")
		}
		return internalError(c, err)
	}
	if callerRole(c) != models.RoleAdmin {
		classID := callerClassID(c)
		if classID == nil || rep.ClassID != *classID {
			return fail(c, http.StatusForbidden, "this report belongs to another class")
		}
	}
	if rep.Status.Terminal() {
		return fail(c, http.StatusConflict, "report is already resolved")
	}

	now := time.Now()
	feedback := strings.TrimSpace(req.Feedback)
	rep.Status = newStatus
	if feedback != "" {
		rep.SecretaryResponse = &feedback
	} else {
		rep.SecretaryResponse = nil
	}
	rep.SecretaryProcessedAt = &now
	if err := h.db.Save(&rep).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "report processed"})
}

// GET /violations/pending-approval: confirmed reports awaiting the union.
func (h *ViolationHandler) PendingApproval(c echo.Context) error {
	return h.listJoined(c, "violation_reports.status = ?", models.StatusPendingApproval)
}

// GET /violations/denied-by-monitor: monitor denials the union may override.
func (h *ViolationHandler) DeniedByMonitor(c echo.Context) error {
	return h.listJoined(c, "violation_reports.status = ?", models.StatusDeniedByMonitor)
}

// GET /violations/pending-count: badge counter for the union dashboard.
func (h *ViolationHandler) PendingCount(c echo.Context) error {
	var count int64
	err := h.db.Model(&models.ViolationReport{}).
		Where("status IN ?", []models.ViolationStatus{models.StatusPendingApproval, models.StatusDeniedByMonitor}).
		Count(&count).Error
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": count})
}

// POST /violations/:id/approve: union's final decision. Valid from
// pending_approval and from denied_by_monitor (the union can overturn
// a monitor's denial). approved/rejected are terminal.
func (h *ViolationHandler) Approve(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid report id")
	}
	var req DecisionReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var newStatus models.ViolationStatus
	switch req.Action {
	case "approve":
		newStatus = models.StatusApproved
	case "reject":
		newStatus = models.StatusRejected
	default:
		return fail(c, http.StatusBadRequest, "action must be approve or reject")
	}

	var rep models.ViolationReport
	if err := h.db.First(&rep, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "report not found")
		}
		return internalError(c, err)
	}
	if rep.Status.Terminal() {
		return fail(c, http.StatusConflict, "report is already resolved")
	}
	if rep.Status == models.StatusPendingConfirmation {
		return fail(c, http.StatusConflict, "report has not been reviewed by the class monitor yet")
	}

	now := time.Now()
	response := "Processed by " + callerName(c)
	rep.Status = newStatus
	rep.UnionResponse = &response
	rep.UnionProcessedAt = &now
	if err := h.db.Save(&rep).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "report " + string(newStatus)})
}

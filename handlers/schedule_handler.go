package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/models"
)

type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler { return &ScheduleHandler{db: db} }

type ScheduleReq struct {
	ClassID      uint   `json:"class_id" validate:"required"`
	TeacherID    uint   `json:"teacher_id" validate:"required"`
	DayOfWeek    int    `json:"day_of_week" validate:"required,min=1,max=7"`
	PeriodNumber int    `json:"period_number" validate:"required,min=1,max=10"`
	SubjectName  string `json:"subject_name" validate:"required"`
	Semester     int    `json:"semester" validate:"required,oneof=1 2"`
	SchoolYear   string `json:"school_year" validate:"required"`
}

type scheduleRow struct {
	models.TimetableSlot
	TeacherName string `json:"teacher_fullname"`
}

// GET /schedules/class/:id?semester=&school_year=
func (h *ScheduleHandler) ListByClass(c echo.Context) error {
	classID := atoiOr(c.Param("id"), 0)
	if classID <= 0 {
		return fail(c, http.StatusBadRequest, "invalid class id")
	}
	semester := atoiOr(c.QueryParam("semester"), 1)
	schoolYear := strings.TrimSpace(c.QueryParam("school_year"))
	if schoolYear == "" {
		schoolYear = "2024-2025"
	}

	var rows []scheduleRow
	err := h.db.Model(&models.TimetableSlot{}).
		Select("timetable_slots.*, u.full_name AS teacher_name").
		Joins("JOIN users u ON u.id = timetable_slots.teacher_id").
		Where("timetable_slots.class_id = ? AND timetable_slots.semester = ? AND timetable_slots.school_year = ?",
			classID, semester, schoolYear).
		Order("timetable_slots.day_of_week ASC, timetable_slots.period_number ASC").
		Scan(&rows).Error
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "schedules": rows})
}

// POST /schedules
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req ScheduleReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slot := models.TimetableSlot{
		ClassID:      req.ClassID,
		TeacherID:    req.TeacherID,
		DayOfWeek:    req.DayOfWeek,
		PeriodNumber: req.PeriodNumber,
		SubjectName:  strings.TrimSpace(req.SubjectName),
		Semester:     req.Semester,
		SchoolYear:   strings.TrimSpace(req.SchoolYear),
	}
	if err := h.db.Create(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "unknown class or teacher")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "timetable slot created", "schedule": slot})
}

// DELETE /schedules/:id
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid timetable id")
	}
	res := h.db.Delete(&models.TimetableSlot{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "cannot delete slot: signed logbook entries reference it")
		}
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "timetable slot not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "timetable slot deleted"})
}

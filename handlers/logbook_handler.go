package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuanphatnh/thptapp/models"
)

type LogbookHandler struct {
	db *gorm.DB
}

func NewLogbookHandler(db *gorm.DB) *LogbookHandler { return &LogbookHandler{db: db} }

type SignReq struct {
	TimetableID     uint   `json:"timetable_id" validate:"required"`
	WeekNumber      int    `json:"week_number" validate:"required,min=1,max=53"`
	LessonContent   string `json:"lesson_content"`
	Notes           string `json:"notes"`
	Attendance      string `json:"attendance"`
	SelectedRuleIDs []uint `json:"selected_rule_ids"`
}

type slotRow struct {
	models.TimetableSlot
	ClassName string `json:"class_name"`
}

type linkRow struct {
	EntryID     uint   `json:"entry_id"`
	RuleID      uint   `json:"rule_id"`
	Description string `json:"description"`
	PointDelta  int    `json:"point_delta"`
}

// GET /logbook/my-schedule?week_number=N
//
// The caller's weekly timetable, each slot combined with its signed
// entry (if any) and the in-class violations recorded on it.
func (h *LogbookHandler) MySchedule(c echo.Context) error {
	week := atoiOr(c.QueryParam("week_number"), currentISOWeek())
	teacherID := callerID(c)

	var slots []slotRow
	err := h.db.Model(&models.TimetableSlot{}).
		Select("timetable_slots.*, c.name AS class_name").
		Joins("JOIN classes c ON c.id = timetable_slots.class_id").
		Where("timetable_slots.teacher_id = ?", teacherID).
		Order("timetable_slots.day_of_week ASC, timetable_slots.period_number ASC").
		Scan(&slots).Error
	if err != nil {
		return internalError(c, err)
	}

	var entries []models.LogbookEntry
	if err := h.db.Where("teacher_id = ? AND week_number = ?", teacherID, week).Find(&entries).Error; err != nil {
		return internalError(c, err)
	}
	byTimetable := make(map[uint]*models.LogbookEntry, len(entries))
	for i := range entries {
		byTimetable[entries[i].TimetableID] = &entries[i]
	}

	var links []linkRow
	err = h.db.Model(&models.LogbookViolation{}).
		Select("logbook_violations.entry_id, logbook_violations.rule_id, rt.description, rt.point_delta").
		Joins("JOIN logbook_entries le ON le.id = logbook_violations.entry_id").
		Joins("JOIN rule_types rt ON rt.id = logbook_violations.rule_id").
		Where("le.teacher_id = ? AND le.week_number = ?", teacherID, week).
		Scan(&links).Error
	if err != nil {
		return internalError(c, err)
	}
	linksByEntry := make(map[uint][]linkRow)
	for _, l := range links {
		linksByEntry[l.EntryID] = append(linksByEntry[l.EntryID], l)
	}

	schedule := make([]map[string]any, 0, len(slots))
	for _, s := range slots {
		item := map[string]any{
			"timetable_id":  s.ID,
			"class_id":      s.ClassID,
			"class_name":    s.ClassName,
			"day_of_week":   s.DayOfWeek,
			"period_number": s.PeriodNumber,
			"subject_name":  s.SubjectName,
			"week_number":   week,
			"is_signed":     false,
			"violations":    []linkRow{},
		}
		if entry, ok := byTimetable[s.ID]; ok {
			item["is_signed"] = true
			item["entry"] = entry
			if ls := linksByEntry[entry.ID]; ls != nil {
				item["violations"] = ls
			}
		}
		schedule = append(schedule, item)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "week_number": week, "schedule": schedule})
}

// POST /logbook/sign
//
// Upserts the entry for (timetable_id, week_number) and replaces its
// violation links, all inside one transaction.
func (h *LogbookHandler) Sign(c echo.Context) error {
	var req SignReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var slot models.TimetableSlot
	if err := h.db.First(&slot, req.TimetableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "timetable slot not found")
		}
		return internalError(c, err)
	}

	// Only the assigned teacher signs their own lesson; the principal
	// board and admin may override.
	graderID := callerID(c)
	switch callerRole(c) {
	case models.RoleAdmin, models.RolePrincipal:
	default:
		if slot.TeacherID != graderID {
			return fail(c, http.StatusForbidden, "you are not the teacher assigned to this lesson")
		}
	}

	now := time.Now()
	entryDate := lessonDate(now.Year(), req.WeekNumber, slot.DayOfWeek).Format(dateLayout)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		entry := models.LogbookEntry{
			TimetableID:   slot.ID,
			WeekNumber:    req.WeekNumber,
			ClassID:       slot.ClassID,
			TeacherID:     slot.TeacherID,
			EntryDate:     entryDate,
			LessonContent: req.LessonContent,
			Notes:         req.Notes,
			Attendance:    req.Attendance,
			GraderID:      graderID,
			SignedAt:      now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "timetable_id"}, {Name: "week_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"entry_date", "lesson_content", "notes", "attendance", "grader_id", "signed_at",
			}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		// The upsert does not report the surviving row's id on conflict.
		if err := tx.Where("timetable_id = ? AND week_number = ?", slot.ID, req.WeekNumber).
			First(&entry).Error; err != nil {
			return err
		}

		// Full replacement of the link set.
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.LogbookViolation{}).Error; err != nil {
			return err
		}
		if len(req.SelectedRuleIDs) > 0 {
			links := make([]models.LogbookViolation, 0, len(req.SelectedRuleIDs))
			for _, ruleID := range req.SelectedRuleIDs {
				links = append(links, models.LogbookViolation{EntryID: entry.ID, RuleID: ruleID})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "unknown rule in selected_rule_ids")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "logbook signed"})
}

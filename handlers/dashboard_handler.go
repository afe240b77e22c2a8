package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/models"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{db: db} }

// GET /dashboard/summary?week_number=N
//
// The numbers the union/principal landing page shows: per-status report
// counts and how many lessons were signed off in the week.
func (h *DashboardHandler) Summary(c echo.Context) error {
	week := atoiOr(c.QueryParam("week_number"), currentISOWeek())

	type statusCount struct {
		Status models.ViolationStatus `json:"status"`
		Count  int64                  `json:"count"`
	}
	var reportCounts []statusCount
	err := h.db.Model(&models.ViolationReport{}).
		Select("status, COUNT(*) AS count").
		Where("week_number = ?", week).
		Group("status").
		Scan(&reportCounts).Error
	if err != nil {
		return internalError(c, err)
	}

	var signedEntries int64
	if err := h.db.Model(&models.LogbookEntry{}).Where("week_number = ?", week).Count(&signedEntries).Error; err != nil {
		return internalError(c, err)
	}

	var classes int64
	if err := h.db.Model(&models.Class{}).Count(&classes).Error; err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":        true,
		"week_number":    week,
		"report_counts":  reportCounts,
		"signed_entries": signedEntries,
		"class_count":    classes,
	})
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tuanphatnh/thptapp/models"
)

type RankingHandler struct {
	db *gorm.DB
}

func NewRankingHandler(db *gorm.DB) *RankingHandler { return &RankingHandler{db: db} }

type CalculateReq struct {
	WeekNumber int `json:"week_number" validate:"required,min=1,max=53"`
}

type rankingRow struct {
	ClassID         uint   `json:"class_id"`
	ClassName       string `json:"class_name"`
	TotalPoints     int    `json:"total_points"`
	LogbookPoints   int    `json:"logbook_points"`
	ViolationPoints int    `json:"violation_points"`
	Rank            int    `json:"rank"`
}

// recomputeWeek rebuilds every class's ranking row for one week.
// A full recompute over stored data, so re-running it is idempotent.
func recomputeWeek(tx *gorm.DB, week int) error {
	var classIDs []uint
	if err := tx.Model(&models.Class{}).Order("id ASC").Pluck("id", &classIDs).Error; err != nil {
		return err
	}

	for _, classID := range classIDs {
		// In-class deductions recorded on signed logbook entries.
		var logbookPoints int
		err := tx.Model(&models.LogbookViolation{}).
			Joins("JOIN logbook_entries le ON le.id = logbook_violations.entry_id").
			Joins("JOIN rule_types rt ON rt.id = logbook_violations.rule_id").
			Where("le.class_id = ? AND le.week_number = ? AND rt.category = ?",
				classID, week, models.CategoryInClass).
			Select("COALESCE(SUM(rt.point_delta), 0)").
			Scan(&logbookPoints).Error
		if err != nil {
			return err
		}

		// Out-of-class deductions and bonus points from approved
		// reports, summed into one figure.
		var violationPoints int
		err = tx.Model(&models.ViolationReport{}).
			Joins("JOIN rule_types rt ON rt.id = violation_reports.rule_id").
			Where("violation_reports.class_id = ? AND violation_reports.week_number = ? AND violation_reports.status = ? AND rt.category IN ?",
				classID, week, models.StatusApproved,
				[]models.RuleCategory{models.CategoryOutOfClass, models.CategoryBonus}).
			Select("COALESCE(SUM(rt.point_delta), 0)").
			Scan(&violationPoints).Error
		if err != nil {
			return err
		}

		ranking := models.WeeklyRanking{
			ClassID:         classID,
			WeekNumber:      week,
			TotalPoints:     100 + logbookPoints + violationPoints,
			LogbookPoints:   logbookPoints,
			ViolationPoints: violationPoints,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "class_id"}, {Name: "week_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_points", "logbook_points", "violation_points", "updated_at",
			}),
		}).Create(&ranking).Error; err != nil {
			return err
		}
	}
	return nil
}

// POST /calculate-ranking
func (h *RankingHandler) Calculate(c echo.Context) error {
	var req CalculateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		return recomputeWeek(tx, req.WeekNumber)
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "weekly ranking recalculated", "week_number": req.WeekNumber})
}

// GET /rankings?week_number=N
//
// Standard competition ranking: descending by total points, tied
// classes share a rank, the next distinct total skips positions.
func (h *RankingHandler) List(c echo.Context) error {
	week := atoiOr(c.QueryParam("week_number"), currentISOWeek())

	var rows []rankingRow
	err := h.db.Model(&models.WeeklyRanking{}).
		Select("weekly_rankings.class_id, c.name AS class_name, weekly_rankings.total_points, weekly_rankings.logbook_points, weekly_rankings.violation_points").
		Joins("JOIN classes c ON c.id = weekly_rankings.class_id").
		Where("weekly_rankings.week_number = ?", week).
		Order("weekly_rankings.total_points DESC, c.name ASC").
		Scan(&rows).Error
	if err != nil {
		return internalError(c, err)
	}

	rank := 0
	for i := range rows {
		if i == 0 || rows[i].TotalPoints != rows[i-1].TotalPoints {
			rank = i + 1
		}
		rows[i].Rank = rank
	}

	start := isoWeekStart(currentYear(), week)
	end := start.AddDate(0, 0, 6)
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"week_number": week,
		"week_start":  start.Format("02/01/2006"),
		"week_end":    end.Format("02/01/2006"),
		"rankings":    rows,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/models"
)

type ClassHandler struct {
	db *gorm.DB
}

func NewClassHandler(db *gorm.DB) *ClassHandler { return &ClassHandler{db: db} }

type ClassReq struct {
	Name       string `json:"class_name" validate:"required"`
	GradeLevel int    `json:"grade_level" validate:"required,oneof=10 11 12"`
	SchoolYear string `json:"school_year" validate:"required"`
}

// GET /classes
func (h *ClassHandler) List(c echo.Context) error {
	var classes []models.Class
	if err := h.db.Order("school_year DESC, grade_level ASC, name ASC").Find(&classes).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "classes": classes})
}

// POST /admin/classes
func (h *ClassHandler) Create(c echo.Context) error {
	var req ClassReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cls := models.Class{
		Name:       strings.TrimSpace(req.Name),
		GradeLevel: req.GradeLevel,
		SchoolYear: strings.TrimSpace(req.SchoolYear),
	}
	if err := h.db.Create(&cls).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(c, http.StatusConflict, "class "+cls.Name+" already exists for school year "+cls.SchoolYear)
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "class created", "class": cls})
}

// DELETE /admin/classes/:id
//
// Deletion is blocked, not cascaded: a class with timetable slots,
// logbook entries or violation reports keeps its history.
func (h *ClassHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid class id")
	}

	res := h.db.Delete(&models.Class{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "cannot delete class: it has linked timetable, logbook or violation records")
		}
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "class not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "class deleted"})
}

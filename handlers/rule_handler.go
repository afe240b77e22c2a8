package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/models"
)

type RuleHandler struct {
	db *gorm.DB
}

func NewRuleHandler(db *gorm.DB) *RuleHandler { return &RuleHandler{db: db} }

type RuleReq struct {
	Description string `json:"description" validate:"required"`
	PointDelta  int    `json:"point_delta" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

// GET /rules: the full catalog, any authenticated role.
func (h *RuleHandler) List(c echo.Context) error {
	var rules []models.RuleType
	if err := h.db.Order("category ASC, id ASC").Find(&rules).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "rules": rules})
}

// POST /admin/rules
func (h *RuleHandler) Create(c echo.Context) error {
	var req RuleReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cat := models.RuleCategory(strings.TrimSpace(req.Category))
	if !cat.Valid() {
		return fail(c, http.StatusBadRequest, "unknown category: "+req.Category)
	}

	rule := models.RuleType{
		Description: strings.TrimSpace(req.Description),
		PointDelta:  req.PointDelta,
		Category:    cat,
	}
	if err := h.db.Create(&rule).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "rule created", "rule": rule})
}

// PUT /admin/rules/:id
func (h *RuleHandler) Update(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid rule id")
	}
	var req RuleReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cat := models.RuleCategory(strings.TrimSpace(req.Category))
	if !cat.Valid() {
		return fail(c, http.StatusBadRequest, "unknown category: "+req.Category)
	}

	var rule models.RuleType
	if err := h.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "rule not found")
		}
		return internalError(c, err)
	}
	rule.Description = strings.TrimSpace(req.Description)
	rule.PointDelta = req.PointDelta
	rule.Category = cat
	if err := h.db.Save(&rule).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "rule updated", "rule": rule})
}

// DELETE /admin/rules/:id
func (h *RuleHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid rule id")
	}
	res := h.db.Delete(&models.RuleType{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "cannot delete rule: it is referenced by reports or logbook entries")
		}
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "rule not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "rule deleted"})
}

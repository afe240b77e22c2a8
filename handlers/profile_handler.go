package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/models"
)

type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler { return &ProfileHandler{db: db} }

type ChangePasswordReq struct {
	Current string `json:"current" validate:"required"`
	Next    string `json:"next" validate:"required,min=8"`
}

// GET /profile/me: the authenticated account.
func (h *ProfileHandler) Me(c echo.Context) error {
	var u models.User
	if err := h.db.First(&u, callerID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "account not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": u})
}

// PUT /profile/password: any authenticated role changes its own password.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := h.db.First(&u, callerID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "account not found")
		}
		return internalError(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(req.Current))) != nil {
		return fail(c, http.StatusUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Next)), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}
	if err := h.db.Model(&u).Update("password_hash", string(hash)).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "password changed"})
}

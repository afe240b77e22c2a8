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

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{db: db} }

// classRoleTaken reports whether another active user already holds the
// given class-scoped role for the class. excludeID skips the user being
// updated.
func classRoleTaken(db *gorm.DB, role models.Role, classID, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(&models.User{}).Where("role = ? AND class_id = ?", role, classID)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type UserUpdateReq struct {
	FullName     string `json:"fullname" validate:"required"`
	Role         string `json:"role" validate:"required"`
	DisplayTitle string `json:"display_title"`
	ClassID      *uint  `json:"class_id"`
	Password     string `json:"password"` // optional: reset when non-empty
}

// GET /admin/users
func (h *UserHandler) List(c echo.Context) error {
	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "users": users})
}

// POST /admin/users: same rules as /auth/register, admin scope.
func (h *UserHandler) Create(c echo.Context) error {
	var req RegisterReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role := models.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		return fail(c, http.StatusBadRequest, "unknown role: "+req.Role)
	}
	if role.ClassScoped() && req.ClassID != nil {
		taken, err := classRoleTaken(h.db, role, *req.ClassID, 0)
		if err != nil {
			return internalError(c, err)
		}
		if taken {
			return fail(c, http.StatusConflict, "this class already has a "+string(role))
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}
	title := req.DisplayTitle
	if title == "" {
		title = string(role)
	}
	u := models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		DisplayTitle: title,
		ClassID:      req.ClassID,
	}
	if err := h.db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fail(c, http.StatusConflict, "username already exists")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "unknown class")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "message": "user created", "user_id": u.ID})
}

// PUT /admin/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	var req UserUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role := models.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		return fail(c, http.StatusBadRequest, "unknown role: "+req.Role)
	}

	var u models.User
	if err := h.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, err)
	}

	if role.ClassScoped() && req.ClassID != nil {
		taken, err := classRoleTaken(h.db, role, *req.ClassID, u.ID)
		if err != nil {
			return internalError(c, err)
		}
		if taken {
			return fail(c, http.StatusConflict, "this class already has a "+string(role))
		}
	}

	u.FullName = strings.TrimSpace(req.FullName)
	u.Role = role
	u.DisplayTitle = req.DisplayTitle
	u.ClassID = req.ClassID
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return internalError(c, err)
		}
		u.PasswordHash = string(hash)
	}
	if err := h.db.Save(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "unknown class")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "user updated"})
}

// DELETE /admin/users/:id
//
// Hard delete, guarded by FK presence: a user who has signed logbook
// entries, holds timetable slots or filed reports cannot be removed.
func (h *UserHandler) Delete(c echo.Context) error {
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	res := h.db.Delete(&models.User{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return fail(c, http.StatusConflict, "cannot delete user: linked logbook, timetable or violation records exist")
		}
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "user deleted"})
}

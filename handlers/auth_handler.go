package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/config"
	"github.com/tuanphatnh/thptapp/models"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

func (h *AuthHandler) signJWT(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"role":     u.Role,
		"name":     u.FullName,
		"class_id": u.ClassID,
		"exp":      time.Now().Add(h.cfg.TokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.cfg.JWTSecret))
}

/* ====================== DTOs ====================== */

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterReq struct {
	Username     string `json:"username" validate:"required,min=3,max=60"`
	Password     string `json:"password" validate:"required,min=4"`
	FullName     string `json:"fullname" validate:"required"`
	Role         string `json:"role" validate:"required"`
	DisplayTitle string `json:"display_title"`
	ClassID      *uint  `json:"class_id"`
}

/* ====================== Handlers ====================== */

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var u models.User
	if err := h.db.Where("username = ?", strings.TrimSpace(req.Username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid credentials")
		}
		return internalError(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.signJWT(&u)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "login successful",
		"token":   token,
		"user":    u,
	})
}

// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
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

	// One active monitor and one homeroom teacher per class.
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
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "registration successful",
		"user_id": u.ID,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tuanphatnh/thptapp/models"
)

// atoiOr parses s, falling back to def when empty or malformed.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// fail writes the error envelope every endpoint shares.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"success": false, "message": msg})
}

func internalError(c echo.Context, err error) error {
	c.Logger().Error(err)
	return fail(c, http.StatusInternalServerError, "internal server error")
}

/* ---- caller identity, attached by middlewares.RequireAuth ---- */

func callerID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}

func callerRole(c echo.Context) models.Role {
	role, _ := c.Get("role").(models.Role)
	return role
}

func callerName(c echo.Context) string {
	name, _ := c.Get("name").(string)
	return name
}

func callerClassID(c echo.Context) *uint {
	id, _ := c.Get("class_id").(*uint)
	return id
}

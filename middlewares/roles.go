package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tuanphatnh/thptapp/models"
)

// RequireRole allows the request through when the authenticated role is
// in the given allow-set, e.g. RequireRole(models.RoleUnion, models.RoleAdmin).
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(models.Role)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"success": false, "message": "you do not have permission for this action"})
			}
			return next(c)
		}
	}
}

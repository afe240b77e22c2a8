package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/config"
	"github.com/tuanphatnh/thptapp/handlers"
	"github.com/tuanphatnh/thptapp/middlewares"
	"github.com/tuanphatnh/thptapp/models"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(db, cfg)
	cls := handlers.NewClassHandler(db)
	rule := handlers.NewRuleHandler(db)
	usr := handlers.NewUserHandler(db)
	sch := handlers.NewScheduleHandler(db)
	vio := handlers.NewViolationHandler(db)
	lb := handlers.NewLogbookHandler(db)
	rank := handlers.NewRankingHandler(db)
	prof := handlers.NewProfileHandler(db)
	dash := handlers.NewDashboardHandler(db)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)
	e.POST("/auth/register", auth.Register)
	e.GET("/rankings", rank.List)

	// ===== Authenticated reads (any role) =====
	e.GET("/classes", cls.List, authMW)
	e.GET("/rules", rule.List, authMW)
	e.GET("/schedules/class/:id", sch.ListByClass, authMW)
	e.GET("/profile/me", prof.Me, authMW)
	e.PUT("/profile/password", prof.ChangePassword, authMW)

	// ===== Admin =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole(models.RoleAdmin))

	admin.POST("/classes", cls.Create)
	admin.DELETE("/classes/:id", cls.Delete)

	admin.POST("/rules", rule.Create)
	admin.PUT("/rules/:id", rule.Update)
	admin.DELETE("/rules/:id", rule.Delete)

	admin.GET("/users", usr.List)
	admin.POST("/users", usr.Create)
	admin.PUT("/users/:id", usr.Update)
	admin.DELETE("/users/:id", usr.Delete)

	// ===== Violation workflow =====
	e.POST("/violations/report", vio.Report,
		authMW, middlewares.RequireRole(models.RoleRedGuard, models.RoleAdmin))
	e.GET("/violations/my-class", vio.MyClass,
		authMW, middlewares.RequireRole(models.RoleMonitor, models.RoleAdmin))
	e.POST("/violations/:id/confirm", vio.Confirm,
		authMW, middlewares.RequireRole(models.RoleMonitor, models.RoleAdmin))
	e.GET("/violations/pending-approval", vio.PendingApproval,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RoleAdmin))
	e.GET("/violations/denied-by-monitor", vio.DeniedByMonitor,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RoleAdmin))
	e.GET("/violations/pending-count", vio.PendingCount,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RoleAdmin))
	e.POST("/violations/:id/approve", vio.Approve,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RoleAdmin))

	// ===== Logbook (teachers; principal board and admin may override) =====
	logbook := e.Group("/logbook", authMW,
		middlewares.RequireRole(models.RoleTeacher, models.RolePrincipal, models.RoleAdmin))
	logbook.GET("/my-schedule", lb.MySchedule)
	logbook.POST("/sign", lb.Sign)

	// ===== Timetable management (union leadership) =====
	e.POST("/schedules", sch.Create,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RoleAdmin))
	e.DELETE("/schedules/:id", sch.Delete,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RoleAdmin))

	// ===== Ranking recompute (admin / principal board) =====
	e.POST("/calculate-ranking", rank.Calculate,
		authMW, middlewares.RequireRole(models.RoleAdmin, models.RolePrincipal))

	// ===== Weekly dashboard =====
	e.GET("/dashboard/summary", dash.Summary,
		authMW, middlewares.RequireRole(models.RoleUnion, models.RolePrincipal, models.RoleAdmin))
}

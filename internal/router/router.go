package router

import (
	"github.com/labstack/echo/v4"

	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/handler"
	"user-management/internal/handler/admin"
	"user-management/internal/handler/auth"
	"user-management/internal/handler/users"
	"user-management/internal/middleware"
	"user-management/internal/worker"
)

// Setup registers all routes and their middleware.
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool) {
	api := e.Group("/api")

	api.GET("/health", handler.HealthHandler(db))

	api.POST("/auth/register", auth.RegisterHandler(db, rdb, wp))
	api.POST("/auth/login", auth.LoginHandler(db, rdb, wp))
	api.POST("/auth/logout", auth.LogoutHandler(rdb))

	apiMe := api.Group("/users/me", middleware.RequireAuth(db, rdb))
	apiMe.GET("", users.GetMeHandler())
	apiMe.PUT("", users.UpdateMeHandler(db))
	apiMe.PATCH("/password", users.UpdateMyPasswordHandler(db))

	apiAdmin := api.Group("/admin/users", middleware.RequireAdmin(db, rdb))
	apiAdmin.GET("", admin.ListUsersHandler(db))
	apiAdmin.GET("/:id", admin.GetUserHandler(db))
	apiAdmin.POST("/:id/toggle-status", admin.ToggleUserStatusHandler(db))
	apiAdmin.POST("/:id/role", admin.ChangeUserRoleHandler(db))
	apiAdmin.DELETE("/:id", admin.DeleteUserHandler(db))
}

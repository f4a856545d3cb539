package handler

import (
	"fmt"
	"net/http"
	"time"

	"user-management/internal/api"
	"user-management/internal/database"
	"user-management/internal/store"

	"github.com/labstack/echo/v4"
)

var countUsers = store.CountUsers

// HealthHandler reports storage reachability and the user count.
// @Summary     Health check
// @Description Report database reachability and the number of accounts
// @Tags        health
// @Produce     json
// @Success     200 {object} api.HealthResponse
// @Failure     503 {object} api.HealthResponse
// @Router      /health [get]
func HealthHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		count, err := countUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, api.HealthResponse{
				Status:    "unhealthy",
				Database:  "disconnected",
				Timestamp: time.Now().UTC(),
			})
		}
		return c.JSON(http.StatusOK, api.HealthResponse{
			Status:    "healthy",
			Database:  fmt.Sprintf("connected (%d users)", count),
			Users:     count,
			Timestamp: time.Now().UTC(),
		})
	}
}

// @title        User Management API
// @version      1.0
// @description  Account registration, sessions and role-based administration
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/model"
	"user-management/internal/router"
	"user-management/internal/service"
	"user-management/internal/store"
	"user-management/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "user-management/docs"

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

// applySessionTTLs lets deployments tune session lifetimes without a rebuild.
func applySessionTTLs() error {
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid SESSION_TTL: %v", err)
		}
		service.DefaultSessionTTL = d
	}
	if v := os.Getenv("SESSION_REMEMBER_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid SESSION_REMEMBER_TTL: %v", err)
		}
		service.RememberSessionTTL = d
	}
	return nil
}

// seedAdmin creates the bootstrap admin account when SEED_ADMIN is set.
// An already existing email is not an error, so restarts are safe.
func seedAdmin(ctx context.Context, db database.DB) error {
	if os.Getenv("SEED_ADMIN") != "true" {
		return nil
	}
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return fmt.Errorf("SEED_ADMIN requires SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD")
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, db, &model.User{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil
	}
	return err
}

func run() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("environment variable DATABASE_URL is not set")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return fmt.Errorf("environment variable REDIS_ADDR is not set")
	}

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		return fmt.Errorf("environment variable REDIS_DB is not set")
	}
	redisIndex, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %v", err)
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	if redisPassword == "" {
		return fmt.Errorf("environment variable REDIS_PASSWORD is not set")
	}

	if os.Getenv("SESSION_SECRET") == "" {
		return fmt.Errorf("environment variable SESSION_SECRET is not set")
	}

	if err := applySessionTTLs(); err != nil {
		return err
	}

	workerCount := 1
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return fmt.Errorf("invalid WORKER_COUNT: %v", err)
		}
		workerCount = c
	}

	db, err := newPgxPool(context.Background(), dbURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(redisAddr, redisPassword, redisIndex)
	if err != nil {
		return fmt.Errorf("redis connection failed: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(dbURL); err != nil {
		return fmt.Errorf("migration failed: %v", err)
	}

	if err := seedAdmin(context.Background(), db); err != nil {
		return fmt.Errorf("admin seeding failed: %v", err)
	}

	wp := newWorkerPool(workerCount)
	defer wp.Stop()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, db, rdb, wp)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, ":8080")
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"scaff-planner/internal/common/config"
	"scaff-planner/internal/common/middleware"
	"scaff-planner/internal/planner/handlers"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/repository"
	"scaff-planner/internal/planner/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()
	if cfg.Environment != "production" {
		log.SetLevel(log.LevelDebug)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	settings := models.DefaultEaveSettings()
	settings.DefaultDistance = cfg.EaveDefaultDistance
	settings.AutoGenerate = cfg.EaveAutoGenerate

	sessions := service.NewSessionManager(service.Options{
		Settings:     settings,
		HistoryLimit: cfg.HistoryLimit,
	})
	planner := handlers.NewPlannerHandler(sessions, repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Scaffold Planner",
		ErrorHandler: handlers.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(repo))

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI("/docs/openapi.yaml"))
	app.Get("/docs/openapi.yaml", handlers.OpenAPISpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")
	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Scaffold Planner v1",
			"status":  "ok",
		})
	})
	planner.Register(api)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Starting Scaffold Planner on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// Package httpapi exposes the back-office REST surface: recurring-schedule
// CRUD and the generate operation.
package httpapi

import (
	"github.com/campvisits/booking-engine/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// NewApp builds the fiber application with all routes registered.
func NewApp(schedules *service.ScheduleService, generation *service.GenerationService, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "booking-engine",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	scheduleHandler := NewScheduleHandler(schedules, logger)
	generateHandler := NewGenerateHandler(generation, logger)

	api := app.Group("/api")
	api.Post("/schedules", scheduleHandler.Create)
	api.Get("/schedules", scheduleHandler.List)
	api.Get("/schedules/:id", scheduleHandler.Get)
	api.Patch("/schedules/:id", scheduleHandler.Update)
	api.Delete("/schedules/:id", scheduleHandler.Delete)
	api.Get("/schedules/:id/bookings", scheduleHandler.ListBookings)
	api.Post("/schedules/:id/generate", generateHandler.Generate)

	return app
}

package httpapi

import (
	"github.com/campvisits/booking-engine/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleHandler serves the recurring-schedule CRUD endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	logger    *zap.Logger
}

func NewScheduleHandler(schedules *service.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		logger:    logger,
	}
}

// Create handles POST /api/schedules.
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	var input service.CreateScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	schedule, err := h.schedules.Create(c.Context(), input)
	if err != nil {
		if _, ok := service.AsValidationError(err); !ok {
			h.logger.Error("Failed to create schedule", zap.Error(err))
		}
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toScheduleResponse(schedule))
}

// List handles GET /api/schedules?active_only=true.
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", false)

	schedules, err := h.schedules.List(c.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list schedules", zap.Error(err))
		return writeError(c, err)
	}

	out := make([]scheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, toScheduleResponse(s))
	}

	return c.JSON(fiber.Map{"schedules": out})
}

// Get handles GET /api/schedules/:id.
func (h *ScheduleHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid schedule id")
	}

	schedule, err := h.schedules.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toScheduleResponse(schedule))
}

// Update handles PATCH /api/schedules/:id.
func (h *ScheduleHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid schedule id")
	}

	var input service.UpdateScheduleInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid request body")
	}

	schedule, err := h.schedules.Update(c.Context(), id, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toScheduleResponse(schedule))
}

// Delete handles DELETE /api/schedules/:id. Deletion is idempotent, so an
// unknown id still returns 204.
func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid schedule id")
	}

	if err := h.schedules.Delete(c.Context(), id); err != nil {
		h.logger.Error("Failed to delete schedule", zap.Error(err))
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListBookings handles GET /api/schedules/:id/bookings.
func (h *ScheduleHandler) ListBookings(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid schedule id")
	}

	bookings, err := h.schedules.ListBookings(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}

	return c.JSON(fiber.Map{"bookings": out})
}

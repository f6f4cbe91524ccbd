package httpapi

import (
	"github.com/campvisits/booking-engine/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateHandler serves the booking materialization endpoint.
type GenerateHandler struct {
	generation *service.GenerationService
	logger     *zap.Logger
}

func NewGenerateHandler(generation *service.GenerationService, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		generation: generation,
		logger:     logger,
	}
}

type generateRequest struct {
	HorizonDays int `json:"horizon_days"`
}

// Generate handles POST /api/schedules/:id/generate. The body is optional;
// without it the default 30-day horizon applies.
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid schedule id")
	}

	var req generateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	result, err := h.generation.Generate(c.Context(), id, req.HorizonDays)
	if err != nil {
		h.logger.Error("Generation failed",
			zap.String("schedule_id", id.String()),
			zap.Error(err))
		return writeError(c, err)
	}

	return c.JSON(result)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/dispatch/service"
)

// DispatchHandler handles HTTP requests for order-sync dispatch runs.
type DispatchHandler struct {
	dispatchService *service.DispatchService
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(dispatchService *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: dispatchService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Run triggers one dispatch cycle against the order-management system.
func (h *DispatchHandler) Run(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	report, err := h.dispatchService.Run(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrNothingToDispatch) {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(report)
}

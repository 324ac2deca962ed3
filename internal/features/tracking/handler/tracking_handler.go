package handler

import (
	"errors"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// batchRequest is the body for batch tracking lookups.
type batchRequest struct {
	TrackingNumbers []string `json:"tracking_numbers"`
}

// GetTracking returns the scraped tracking record for one tracking number.
func (h *TrackingHandler) GetTracking(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	trackingNumber := c.Params("number")
	if trackingNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "tracking number is required",
			RayID:   rayID,
		})
	}

	result, err := h.trackingService.GetTracking(c.Context(), trackingNumber)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(result)
}

// GetTrackingBatch returns scraped records for a list of tracking numbers.
// Individual lookup failures are reported inside the per-number results.
func (h *TrackingHandler) GetTrackingBatch(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID,
		})
	}

	results, err := h.trackingService.GetTrackingBatch(c.Context(), req.TrackingNumbers)
	if err != nil {
		if errors.Is(err, service.ErrNoTrackingNumbers) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(results)
}

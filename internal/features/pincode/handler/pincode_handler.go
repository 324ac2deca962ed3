package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/domain"
	"github.com/sayaji-jay/anjani-pincode-system/internal/features/pincode/service"
)

// PincodeLoader reads a pincode list from a CSV file path.
type PincodeLoader func(path string) ([]string, error)

// PincodeHandler handles HTTP requests for pincode report operations.
type PincodeHandler struct {
	pincodeService *service.PincodeService
	loadPincodes   PincodeLoader
}

// NewPincodeHandler creates a new PincodeHandler. loadPincodes resolves CSV
// file paths in batch requests.
func NewPincodeHandler(pincodeService *service.PincodeService, loadPincodes PincodeLoader) *PincodeHandler {
	return &PincodeHandler{
		pincodeService: pincodeService,
		loadPincodes:   loadPincodes,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// batchRequest is the body for pincode batch runs. Either an inline list of
// pincodes or a server-side CSV file path, not both.
type batchRequest struct {
	Pincodes []string `json:"pincodes"`
	FilePath string   `json:"file_path"`
}

// zonesResponse carries both halves of the serviceability partition.
type zonesResponse struct {
	Serviceable   []domain.DeliveryZoneVerdict `json:"serviceable"`
	Unserviceable []domain.DeliveryZoneVerdict `json:"unserviceable"`
}

// ProcessBatch runs the pincode report batch and returns the run summary.
func (h *PincodeHandler) ProcessBatch(c *fiber.Ctx) error {
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

	pincodes := req.Pincodes
	if len(pincodes) == 0 && req.FilePath != "" {
		loaded, err := h.loadPincodes(req.FilePath)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID,
			})
		}
		pincodes = loaded
	}

	summary, err := h.pincodeService.ProcessPincodes(c.Context(), pincodes)
	if err != nil {
		if errors.Is(err, service.ErrNoPincodes) {
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

	return c.JSON(summary)
}

// GetDeliveryZones returns the aggregated serviceability verdicts, optionally
// filtered by the state query parameter.
func (h *PincodeHandler) GetDeliveryZones(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	serviceable, unserviceable, err := h.pincodeService.DeliveryZones(c.Context(), c.Query("state"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(zonesResponse{
		Serviceable:   serviceable,
		Unserviceable: unserviceable,
	})
}

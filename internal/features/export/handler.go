package export

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes workbook export over HTTP.
type Handler struct {
	exporter    *Exporter
	defaultPath string
}

// NewHandler creates a new export Handler. defaultPath is used when a
// request does not name an output file.
func NewHandler(exporter *Exporter, defaultPath string) *Handler {
	return &Handler{
		exporter:    exporter,
		defaultPath: defaultPath,
	}
}

type exportRequest struct {
	// Path is the server-side output file; optional.
	Path string `json:"path"`
}

// Export writes the workbook and reports where it landed.
func (h *Handler) Export(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var req exportRequest
	// An empty body is fine; the default path applies.
	_ = c.BodyParser(&req)

	path := req.Path
	if path == "" {
		path = h.defaultPath
	}

	if err := h.exporter.Export(c.Context(), path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
			"ray_id":  rayID,
		})
	}

	return c.JSON(fiber.Map{"path": path})
}

package handler

import (
	"errors"

	"go-agrimarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FarmerHandler exposes the employee-side farmer lifecycle endpoints
type FarmerHandler struct {
	farmerService service.FarmerService
}

func NewFarmerHandler(farmerService service.FarmerService) *FarmerHandler {
	return &FarmerHandler{farmerService: farmerService}
}

// Onboard creates a new Pending farmer account
// POST /api/v1/farmers
func (h *FarmerHandler) Onboard(c *fiber.Ctx) error {
	var req service.OnboardFarmerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	employeeID := getUserID(c)

	farmer, err := h.farmerService.Onboard(&req, employeeID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Farmer profile created successfully",
		"data":    farmer.ToResponse(),
	})
}

// ListFarmers returns the farmers onboarded by the calling employee
// GET /api/v1/farmers
func (h *FarmerHandler) ListFarmers(c *fiber.Ctx) error {
	farmers, err := h.farmerService.ListFarmers(getUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch farmers"})
	}
	return c.JSON(farmers)
}

// ActivateRequest carries the farmer email to activate
type ActivateRequest struct {
	Email string `json:"email"`
}

// Activate transitions a farmer account to Active
// POST /api/v1/farmers/activate
func (h *FarmerHandler) Activate(c *fiber.Ctx) error {
	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	farmer, err := h.farmerService.Activate(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrFarmerNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Failed to activate farmer"})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Farmer account activated",
		"data":    farmer.ToResponse(),
	})
}

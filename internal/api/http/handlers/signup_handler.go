package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bookadzone/launch-api/internal/api/dto"
	"github.com/bookadzone/launch-api/internal/service"
	apperrors "github.com/bookadzone/launch-api/pkg/util/errorutil"
)

// SignupHandler exposes the launch-notification intake endpoints.
type SignupHandler struct {
	signups *service.SignupService
}

// NewSignupHandler constructs handler.
func NewSignupHandler(signupService *service.SignupService) *SignupHandler {
	return &SignupHandler{signups: signupService}
}

// Submit handles POST /signup.
func (h *SignupHandler) Submit(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid request data")
	}

	input := req.ToInput()
	input.IPAddress = service.ExtractClientIP(func(key string) string {
		return c.Get(key)
	})

	result, err := h.signups.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}

	response := fiber.Map{
		"message": "Successfully registered for notifications",
		"data":    dto.NewSignupData(result.Signup),
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	return c.Status(http.StatusOK).JSON(response)
}

// Counts handles GET /signup/counts. It always answers 200; database trouble
// degrades to the configured baselines.
func (h *SignupHandler) Counts(c *fiber.Ctx) error {
	return c.JSON(h.signups.AggregateCounts(c.UserContext()))
}

// Validate handles POST /validate, the optional client pre-check. It runs the
// same rules as Submit without touching the database.
func (h *SignupHandler) Validate(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid request data")
	}

	if fields := service.ValidateSignupInput(req.ToInput()); len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return c.JSON(fiber.Map{"success": true})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bookadzone/launch-api/internal/api/dto"
	"github.com/bookadzone/launch-api/internal/service"
	apperrors "github.com/bookadzone/launch-api/pkg/util/errorutil"
)

// SubscribeHandler exposes the newsletter subscription endpoint.
type SubscribeHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscribeHandler constructs handler.
func NewSubscribeHandler(subscriptionService *service.SubscriptionService) *SubscribeHandler {
	return &SubscribeHandler{subscriptions: subscriptionService}
}

// Subscribe handles POST /subscribe.
func (h *SubscribeHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Please enter a valid email address")
	}

	result, err := h.subscriptions.Subscribe(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	response := fiber.Map{
		"success": true,
		"message": "Successfully subscribed!",
	}
	if result.Warning != "" {
		response["warning"] = result.Warning
	}
	return c.Status(http.StatusCreated).JSON(response)
}

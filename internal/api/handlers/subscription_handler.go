package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/medimarkt/medimarkt-backend/internal/api/response"
	"github.com/medimarkt/medimarkt-backend/internal/services"
)

// SubscriptionHandler exposes the caller's quota position
type SubscriptionHandler struct {
	quota services.QuotaService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(quota services.QuotaService) *SubscriptionHandler {
	return &SubscriptionHandler{quota: quota}
}

// Quota handles GET /api/subscriptions/quota
func (h *SubscriptionHandler) Quota(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}

	snapshot, err := h.quota.SnapshotForUser(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, snapshot)
}

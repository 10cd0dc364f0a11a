package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/medimarkt/medimarkt-backend/internal/api/response"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/services"
	"github.com/medimarkt/medimarkt-backend/internal/validator"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messages services.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// sendMessagePayload is the body for POST /api/connections/:id/messages
type sendMessagePayload struct {
	Content string             `json:"content"`
	Type    models.MessageType `json:"type,omitempty"`
}

// Send handles POST /api/connections/:id/messages
func (h *MessageHandler) Send(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	connectionID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid connection ID")
	}

	var payload sendMessagePayload
	if err := c.Bind(&payload); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	payload.Content = validator.SanitizeString(payload.Content, validator.MaxMessageLength)
	if payload.Type == "" {
		payload.Type = models.MessageTypeText
	}

	message, err := h.messages.Send(c.Request().Context(), userID, connectionID, payload.Content, payload.Type)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// List handles GET /api/connections/:id/messages
func (h *MessageHandler) List(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	connectionID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid connection ID")
	}

	limit, offset := pagination(c)

	messages, total, err := h.messages.List(c.Request().Context(), userID, connectionID, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, limit, offset)
}

// MarkRead handles PATCH /api/messages/:id/read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	messageID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid message ID")
	}

	if err := h.messages.MarkRead(c.Request().Context(), userID, messageID); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessWithMessage(c, nil, "message marked as read")
}

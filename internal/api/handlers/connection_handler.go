package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/medimarkt/medimarkt-backend/internal/api/response"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/services"
	"github.com/medimarkt/medimarkt-backend/internal/validator"
)

// ConnectionHandler handles connection-related HTTP requests
type ConnectionHandler struct {
	connections services.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connections services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// requestConnectionPayload is the body for POST /api/connections
type requestConnectionPayload struct {
	ListingID *uint  `json:"listing_id,omitempty"`
	BuyerID   *uint  `json:"buyer_id,omitempty"`
	Message   string `json:"message"`
}

// respondPayload is the body for PUT /api/connections/:id/respond
type respondPayload struct {
	Status          models.ConnectionStatus `json:"status"`
	ResponseMessage string                  `json:"response_message,omitempty"`
}

// Request handles POST /api/connections
func (h *ConnectionHandler) Request(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}

	var payload requestConnectionPayload
	if err := c.Bind(&payload); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	payload.Message = validator.SanitizeString(payload.Message, validator.MaxMessageLength)

	conn, err := h.connections.Request(c.Request().Context(), services.ConnectionRequest{
		InitiatorID: userID,
		ListingID:   payload.ListingID,
		BuyerID:     payload.BuyerID,
		Message:     payload.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conn)
}

// List handles GET /api/connections
func (h *ConnectionHandler) List(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}

	limit, offset := pagination(c)

	var status *models.ConnectionStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.ConnectionStatus(raw)
		if !s.IsValid() {
			return response.BadRequest(c, "invalid status filter")
		}
		status = &s
	}

	connections, total, err := h.connections.List(c.Request().Context(), userID, status, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, connections, total, limit, offset)
}

// Get handles GET /api/connections/:id
func (h *ConnectionHandler) Get(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid connection ID")
	}

	conn, err := h.connections.Detail(c.Request().Context(), userID, id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conn)
}

// Respond handles PUT /api/connections/:id/respond
func (h *ConnectionHandler) Respond(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid connection ID")
	}

	var payload respondPayload
	if err := c.Bind(&payload); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	payload.ResponseMessage = validator.SanitizeString(payload.ResponseMessage, validator.MaxMessageLength)

	conn, err := h.connections.Respond(c.Request().Context(), userID, id, payload.Status, payload.ResponseMessage)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conn)
}

// Block handles PUT /api/connections/:id/block
func (h *ConnectionHandler) Block(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "invalid connection ID")
	}

	if err := h.connections.BlockConnection(c.Request().Context(), userID, id); err != nil {
		return response.Error(c, err)
	}

	return response.SuccessWithMessage(c, nil, "connection blocked")
}

// Status handles GET /api/connections/status?listing_id=
func (h *ConnectionHandler) Status(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}

	listingID, ok := queryID(c, "listing_id")
	if !ok {
		return response.BadRequest(c, "invalid listing ID")
	}

	info, err := h.connections.Status(c.Request().Context(), userID, listingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, info)
}

package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/medimarkt/medimarkt-backend/internal/api/response"
	"github.com/medimarkt/medimarkt-backend/internal/services"
	"github.com/medimarkt/medimarkt-backend/internal/validator"
)

// BlockHandler handles user block HTTP requests
type BlockHandler struct {
	blocks services.BlockService
}

// NewBlockHandler creates a new BlockHandler
func NewBlockHandler(blocks services.BlockService) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

// createBlockPayload is the body for POST /api/blocks
type createBlockPayload struct {
	BlockedID uint   `json:"blocked_id"`
	Reason    string `json:"reason,omitempty"`
}

// Create handles POST /api/blocks
func (h *BlockHandler) Create(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}

	var payload createBlockPayload
	if err := c.Bind(&payload); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if payload.BlockedID == 0 {
		return response.BadRequest(c, "blocked_id is required")
	}
	payload.Reason = validator.SanitizeString(payload.Reason, validator.MaxReasonLength)

	block, err := h.blocks.Block(c.Request().Context(), userID, payload.BlockedID, payload.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, block)
}

// Remove handles DELETE /api/blocks/:user_id
func (h *BlockHandler) Remove(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	blockedID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "invalid user ID")
	}

	if err := h.blocks.Unblock(c.Request().Context(), userID, blockedID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

// List handles GET /api/blocks
func (h *BlockHandler) List(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}

	blocks, err := h.blocks.ListBlocks(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, blocks)
}

// Status handles GET /api/blocks/:user_id
func (h *BlockHandler) Status(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.BadRequest(c, "missing or invalid user identity")
	}
	otherID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "invalid user ID")
	}

	blocking, err := h.blocks.IsBlocking(c.Request().Context(), userID, otherID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"blocking": blocking})
}

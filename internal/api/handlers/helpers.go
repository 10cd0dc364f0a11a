package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/medimarkt/medimarkt-backend/internal/validator"
)

// HeaderUserID carries the authenticated caller's user id, set by the
// upstream auth gateway after it validates the session.
const HeaderUserID = "X-User-ID"

// currentUserID extracts the authenticated user id from the request
func currentUserID(c echo.Context) (uint, bool) {
	raw := c.Request().Header.Get(HeaderUserID)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// paramID parses a numeric path parameter
func paramID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryID parses a numeric query parameter
func queryID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.QueryParam(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pagination parses limit/offset query parameters with sane bounds
func pagination(c echo.Context) (int, int) {
	limit := 0
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}
	return validator.ValidatePagination(limit, offset)
}

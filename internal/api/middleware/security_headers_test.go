package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serveSecured(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(SecureHeaders())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecureHeaders_AllHeadersPresent(t *testing.T) {
	rec := serveSecured(t, "/test")

	assert.Equal(t, http.StatusOK, rec.Code)

	expected := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Permissions-Policy":     "geolocation=(), microphone=(), camera=()",
	}
	for header, value := range expected {
		assert.Equal(t, value, rec.Header().Get(header), header)
	}
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestSecureHeaders_ContentSecurityPolicy(t *testing.T) {
	rec := serveSecured(t, "/test")

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	// Browser clients need the notification WebSocket
	assert.Contains(t, csp, "connect-src 'self' wss:")
}

func TestSecureHeaders_HSTSNotOnHTTP(t *testing.T) {
	rec := serveSecured(t, "http://localhost/test")

	// HSTS over plain HTTP would be ignored at best
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

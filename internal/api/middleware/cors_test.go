package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func serveCORS(t *testing.T, method, origin string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(SecureCORS())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, "/test", nil)
	req.Header.Set("Origin", origin)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecureCORS_AllowedOrigin(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://app.medimarkt.example")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	rec := serveCORS(t, http.MethodGet, "https://app.medimarkt.example", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.medimarkt.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureCORS_DisallowedOrigin(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	rec := serveCORS(t, http.MethodGet, "http://malicious.example", nil)

	// The request itself succeeds but no CORS grant is issued
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureCORS_PreflightAllowsIdentityHeader(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	rec := serveCORS(t, http.MethodOptions, "http://localhost:3000", map[string]string{
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "X-User-ID",
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
}

func TestSecureCORS_DefaultOrigin(t *testing.T) {
	os.Unsetenv("ALLOWED_ORIGINS")

	rec := serveCORS(t, http.MethodGet, "http://localhost:3000", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureCORS_ProductionNoWildcard(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "*,https://app.medimarkt.example")
	os.Setenv("APP_ENV", "production")
	defer os.Unsetenv("ALLOWED_ORIGINS")
	defer os.Unsetenv("APP_ENV")

	// The named origin survives, the wildcard is dropped
	rec := serveCORS(t, http.MethodGet, "https://app.medimarkt.example", nil)
	assert.Equal(t, "https://app.medimarkt.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serveCORS(t, http.MethodGet, "http://anything.example", nil)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecureCORS_CredentialsAllowed(t *testing.T) {
	os.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")
	defer os.Unsetenv("ALLOWED_ORIGINS")

	rec := serveCORS(t, http.MethodGet, "http://localhost:3000", nil)

	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

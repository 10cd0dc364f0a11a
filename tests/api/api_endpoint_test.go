//go:build api
// +build api

// Package api contains smoke tests that run against a real backend server.
// Run with: go test -tags=api ./tests/api/... -v
// Requires backend to be running on localhost:8080
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const defaultBaseURL = "http://localhost:8080"

// APITestSuite is the test suite for real API endpoint smoke testing.
// It makes no assumptions about seeded data; it verifies the surface
// shape: envelopes, identity handling, and validation errors.
type APITestSuite struct {
	suite.Suite
	baseURL string
	apiKey  string
	client  *http.Client
}

func TestAPIEndpoints(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupSuite() {
	s.baseURL = os.Getenv("API_BASE_URL")
	if s.baseURL == "" {
		s.baseURL = defaultBaseURL
	}
	s.apiKey = os.Getenv("API_KEY")

	s.client = &http.Client{Timeout: 30 * time.Second}

	// Verify server is running
	resp, err := s.client.Get(s.baseURL + "/health")
	require.NoError(s.T(), err, "Backend server must be running on %s", s.baseURL)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, "Health check should return 200")
}

// doRequest performs a request with optional identity header
func (s *APITestSuite) doRequest(method, path, userID string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	return s.client.Do(req)
}

// =============================================================================
// HEALTH ENDPOINTS
// =============================================================================

func (s *APITestSuite) TestHealth_ReturnsHealthy() {
	resp, err := s.client.Get(s.baseURL + "/health")
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "healthy", result["status"])
}

func (s *APITestSuite) TestReady_ReturnsReady() {
	resp, err := s.client.Get(s.baseURL + "/ready")
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ready", result["status"])
}

// =============================================================================
// IDENTITY HANDLING
// =============================================================================

func (s *APITestSuite) TestConnections_MissingIdentityRejected() {
	resp, err := s.doRequest(http.MethodGet, "/api/connections", "", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestConnections_MalformedIdentityRejected() {
	resp, err := s.doRequest(http.MethodGet, "/api/connections", "not-a-number", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestBlocks_MissingIdentityRejected() {
	resp, err := s.doRequest(http.MethodGet, "/api/blocks", "", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

func (s *APITestSuite) TestConnections_InvalidStatusFilter() {
	resp, err := s.doRequest(http.MethodGet, "/api/connections?status=bogus", "1", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), false, result["success"])
	assert.Equal(s.T(), "INVALID_INPUT", result["code"])
}

func (s *APITestSuite) TestBlocks_MissingBlockedID() {
	resp, err := s.doRequest(http.MethodPost, "/api/blocks", "1", map[string]interface{}{
		"reason": "no target",
	})
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestConnectionStatus_MissingListingID() {
	resp, err := s.doRequest(http.MethodGet, "/api/connections/status", "1", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestConnections_InvalidIDParam() {
	resp, err := s.doRequest(http.MethodGet, "/api/connections/not-an-id", "1", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// QUOTA ENDPOINT
// =============================================================================

func (s *APITestSuite) TestQuota_UnknownUserNeedsSubscription() {
	// An identity without a subscription gets the payment-required code
	resp, err := s.doRequest(http.MethodGet, "/api/subscriptions/quota", "999999999", nil)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusPaymentRequired, resp.StatusCode)

	var result map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "SUBSCRIPTION_REQUIRED", result["code"])
}

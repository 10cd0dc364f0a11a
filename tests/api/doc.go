// Package api contains smoke tests that run against a real backend server.
//
// These tests require the backend server to be running before execution.
// They verify the HTTP surface without assuming any seeded marketplace
// data: health endpoints, identity handling, and validation behavior.
//
// Usage:
//
//	# Start the backend server first
//	go run cmd/server/main.go
//
//	# Then run the API tests
//	go test -tags=api ./tests/api/... -v
//
// Environment Variables:
//
//	API_BASE_URL - Base URL of the API server (default: http://localhost:8080)
//	API_KEY      - API key for authentication (optional; omit when auth is disabled)
package api

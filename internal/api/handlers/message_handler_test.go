package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	apperrors "github.com/medimarkt/medimarkt-backend/internal/errors"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MessageHandlerTestSuite is the test suite for MessageHandler
type MessageHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	mockSvc *mocks.MockMessageService
	handler *MessageHandler
}

// SetupTest runs before each test
func (s *MessageHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockSvc = new(mocks.MockMessageService)
	s.handler = NewMessageHandler(s.mockSvc)
}

// TearDownTest runs after each test
func (s *MessageHandlerTestSuite) TearDownTest() {
	s.mockSvc.AssertExpectations(s.T())
}

// TestMessageHandlerTestSuite runs the test suite
func TestMessageHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MessageHandlerTestSuite))
}

// createContext creates an echo context for testing
func (s *MessageHandlerTestSuite) createContext(method, path, userID, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

// ==================== Send Tests ====================

func (s *MessageHandlerTestSuite) TestSend_Success() {
	message := &models.Message{ID: 1, ConnectionID: 5, SenderID: 7, Content: "is this in stock?", Type: models.MessageTypeText}
	s.mockSvc.On("Send", mock.Anything, uint(7), uint(5), "is this in stock?", models.MessageTypeText).
		Return(message, nil)

	c, rec := s.createContext(http.MethodPost, "/api/connections/5/messages", "7",
		`{"content": "is this in stock?"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.Send(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"content":"is this in stock?"`)
}

func (s *MessageHandlerTestSuite) TestSend_DefaultsTypeToText() {
	message := &models.Message{ID: 1, Type: models.MessageTypeText}
	s.mockSvc.On("Send", mock.Anything, uint(7), uint(5), "hello", models.MessageTypeText).
		Return(message, nil)

	c, rec := s.createContext(http.MethodPost, "/api/connections/5/messages", "7",
		`{"content": "hello", "type": ""}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.Send(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
}

func (s *MessageHandlerTestSuite) TestSend_MissingIdentity() {
	c, rec := s.createContext(http.MethodPost, "/api/connections/5/messages", "",
		`{"content": "hello"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.Send(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *MessageHandlerTestSuite) TestSend_MessagingUnavailable() {
	// The closed-channel failure surfaces with its one generic text
	s.mockSvc.On("Send", mock.Anything, uint(7), uint(5), "hello", models.MessageTypeText).
		Return(nil, apperrors.ErrMessagingUnavailable)

	c, rec := s.createContext(http.MethodPost, "/api/connections/5/messages", "7",
		`{"content": "hello"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.Send(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusConflict, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), apperrors.ErrMessagingUnavailable.Error())
}

func (s *MessageHandlerTestSuite) TestSend_NotApproved() {
	s.mockSvc.On("Send", mock.Anything, uint(7), uint(5), "hello", models.MessageTypeText).
		Return(nil, apperrors.ErrInvalidTransition)

	c, rec := s.createContext(http.MethodPost, "/api/connections/5/messages", "7",
		`{"content": "hello"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.Send(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusConflict, rec.Code)
}

// ==================== List Tests ====================

func (s *MessageHandlerTestSuite) TestList_Success() {
	messages := []models.Message{
		{ID: 1, ConnectionID: 5, SenderID: 7, Content: "one"},
		{ID: 2, ConnectionID: 5, SenderID: 3, Content: "two"},
	}
	s.mockSvc.On("List", mock.Anything, uint(7), uint(5), 20, 0).
		Return(messages, int64(2), nil)

	c, rec := s.createContext(http.MethodGet, "/api/connections/5/messages", "7", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.List(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"total":2`)
}

func (s *MessageHandlerTestSuite) TestList_Pagination() {
	s.mockSvc.On("List", mock.Anything, uint(7), uint(5), 10, 20).
		Return([]models.Message{}, int64(25), nil)

	c, rec := s.createContext(http.MethodGet, "/api/connections/5/messages?limit=10&offset=20", "7", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.List(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *MessageHandlerTestSuite) TestList_NonParty() {
	s.mockSvc.On("List", mock.Anything, uint(9), uint(5), 20, 0).
		Return(nil, int64(0), apperrors.ErrForbidden)

	c, rec := s.createContext(http.MethodGet, "/api/connections/5/messages", "9", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := s.handler.List(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusForbidden, rec.Code)
}

// ==================== MarkRead Tests ====================

func (s *MessageHandlerTestSuite) TestMarkRead_Success() {
	s.mockSvc.On("MarkRead", mock.Anything, uint(7), uint(11)).Return(nil)

	c, rec := s.createContext(http.MethodPatch, "/api/messages/11/read", "7", "")
	c.SetParamNames("id")
	c.SetParamValues("11")

	err := s.handler.MarkRead(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "message marked as read")
}

func (s *MessageHandlerTestSuite) TestMarkRead_NotFound() {
	s.mockSvc.On("MarkRead", mock.Anything, uint(7), uint(11)).
		Return(apperrors.ErrMessageNotFound)

	c, rec := s.createContext(http.MethodPatch, "/api/messages/11/read", "7", "")
	c.SetParamNames("id")
	c.SetParamValues("11")

	err := s.handler.MarkRead(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *MessageHandlerTestSuite) TestMarkRead_InvalidID() {
	c, rec := s.createContext(http.MethodPatch, "/api/messages/zero/read", "7", "")
	c.SetParamNames("id")
	c.SetParamValues("zero")

	err := s.handler.MarkRead(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

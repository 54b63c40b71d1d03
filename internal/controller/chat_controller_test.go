package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pdf-chat-be/internal/dto"
	"pdf-chat-be/internal/pkg/serverutils"
	"pdf-chat-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	createResp   *dto.CreateSessionResponse
	listResp     *dto.SessionListResponse
	sendResp     *dto.SendMessageResponse
	uploadResp   *dto.UploadDocumentResponse
	err          error
	gotFileName  string
	gotContent   string
	deletedId    uuid.UUID
	setActiveArg *uuid.UUID
}

func (s *stubChatService) CreateSession(context.Context) (*dto.CreateSessionResponse, error) {
	return s.createResp, s.err
}

func (s *stubChatService) GetAllSessions(context.Context) (*dto.SessionListResponse, error) {
	return s.listResp, s.err
}

func (s *stubChatService) GetTranscript(_ context.Context, id uuid.UUID) (*dto.GetTranscriptResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.GetTranscriptResponse{Id: id}, nil
}

func (s *stubChatService) DeleteSession(_ context.Context, id uuid.UUID) error {
	s.deletedId = id
	return s.err
}

func (s *stubChatService) SetActiveSession(_ context.Context, id *uuid.UUID) (*dto.ActiveSessionResponse, error) {
	s.setActiveArg = id
	return &dto.ActiveSessionResponse{ActiveSessionId: id}, s.err
}

func (s *stubChatService) GetActiveSession(context.Context) *dto.ActiveSessionResponse {
	return &dto.ActiveSessionResponse{}
}

func (s *stubChatService) SendMessage(_ context.Context, _ uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	s.gotContent = req.Content
	return s.sendResp, s.err
}

func (s *stubChatService) UploadDocument(_ context.Context, _ uuid.UUID, fileName string, file io.Reader) (*dto.UploadDocumentResponse, error) {
	s.gotFileName = fileName
	io.Copy(io.Discard, file)
	return s.uploadResp, s.err
}

func newTestApp(svc *stubChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestCreateSessionReturns201(t *testing.T) {
	svc := &stubChatService{createResp: &dto.CreateSessionResponse{Id: uuid.New()}}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions", nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestSendMessageValidation(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions/"+uuid.NewString()+"/messages", strings.NewReader(`{"content": ""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "validation failed")
}

func TestSendMessageUnknownSessionIs404(t *testing.T) {
	svc := &stubChatService{err: contract.ErrSessionNotFound}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions/"+uuid.NewString()+"/messages", strings.NewReader(`{"content": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSendMessageInvalidSessionIdIs400(t *testing.T) {
	app := newTestApp(&stubChatService{})

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions/not-a-uuid/messages", strings.NewReader(`{"content": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	part.Write([]byte("plain text"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions/"+uuid.NewString()+"/document", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "PDF")
	assert.Empty(t, svc.gotFileName, "service must not be called for a rejected file")
}

func TestUploadAcceptsPDF(t *testing.T) {
	svc := &stubChatService{uploadResp: &dto.UploadDocumentResponse{DocumentName: "report.pdf"}}
	app := newTestApp(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	part.Write([]byte("%PDF-1.4"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions/"+uuid.NewString()+"/document", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "report.pdf", svc.gotFileName)
}

func TestUploadMissingFileFieldIs400(t *testing.T) {
	app := newTestApp(&stubChatService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/chat/v1/sessions/"+uuid.NewString()+"/document", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, body := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "file")
}

func TestSetActiveSessionClearsWithNull(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	req := httptest.NewRequest("PUT", "/api/chat/v1/sessions/active", strings.NewReader(`{"session_id": null}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, svc.setActiveArg)
}

func TestActiveRouteNotShadowedByIdRoute(t *testing.T) {
	app := newTestApp(&stubChatService{})

	// "active" must not be parsed as a session id.
	req := httptest.NewRequest("GET", "/api/chat/v1/sessions/active", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteSessionPassesId(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	id := uuid.New()
	req := httptest.NewRequest("DELETE", "/api/chat/v1/sessions/"+id.String(), nil)
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id, svc.deletedId)
}

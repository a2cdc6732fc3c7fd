package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/climalab/clima-chat/internal/domain/auth"
	"github.com/climalab/clima-chat/internal/domain/chat"
	"github.com/climalab/clima-chat/internal/domain/weather"
	"github.com/climalab/clima-chat/internal/infra/chatstore"
	"github.com/climalab/clima-chat/internal/infra/config"
	"github.com/climalab/clima-chat/internal/infra/userrepo"
	"github.com/climalab/clima-chat/pkg/metrics"
)

type stubLookup struct {
	obs *weather.Observation
}

func (s *stubLookup) Lookup(_ context.Context, place string, tomorrow bool) (*weather.Observation, error) {
	if s.obs == nil {
		return nil, nil
	}
	obs := *s.obs
	obs.Place = place
	obs.Tomorrow = tomorrow
	return &obs, nil
}

type stubGenerator struct {
	reply string
}

func (s *stubGenerator) Generate(context.Context, []string) (string, metrics.TokenUsage, error) {
	return s.reply, metrics.TokenUsage{}, nil
}

func TestRouter_RegisterLoginAndChatFlow(t *testing.T) {
	server := newServerUnderTest(t, &stubLookup{}, &stubGenerator{reply: "Esta es una respuesta de prueba"})

	rec := performRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":"ana@example.com","password":"pass1234","nickname":"Ana"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	token := loginToken(t, server, "ana@example.com", "pass1234")

	rec = performRequest(server, http.MethodPost, "/api/v1/chats", "", token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	require.Equal(t, chat.DefaultTitle, conv.Title)

	rec = performRequest(server, http.MethodPost, fmt.Sprintf("/api/v1/chats/%d/messages", conv.ID), `{"message":"Hola, ¿cómo estás?"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var sent struct {
		Reply        chat.Turn         `json:"reply"`
		Conversation chat.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	require.Equal(t, "Esta es una respuesta de prueba", sent.Reply.Content)
	require.False(t, sent.Reply.FromWeather)
	require.Equal(t, "Hola, ¿cómo estás?", sent.Conversation.Title)

	rec = performRequest(server, http.MethodGet, fmt.Sprintf("/api/v1/chats/%d", conv.ID), "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Turns []chat.Turn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Len(t, detail.Turns, 2)

	rec = performRequest(server, http.MethodGet, "/api/v1/chats", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Conversations []chat.Conversation `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Conversations, 1)

	rec = performRequest(server, http.MethodDelete, fmt.Sprintf("/api/v1/chats/%d", conv.ID), "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(server, http.MethodGet, fmt.Sprintf("/api/v1/chats/%d", conv.ID), "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_WeatherMessage(t *testing.T) {
	lookup := &stubLookup{obs: &weather.Observation{Temperature: 22.5, Code: 1}}
	server := newServerUnderTest(t, lookup, &stubGenerator{reply: "no debería usarse"})

	rec := performRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":"ana@example.com","password":"pass1234","nickname":"Ana"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := loginToken(t, server, "ana@example.com", "pass1234")

	rec = performRequest(server, http.MethodPost, "/api/v1/chats", "", token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = performRequest(server, http.MethodPost, fmt.Sprintf("/api/v1/chats/%d/messages", conv.ID), `{"message":"¿Cómo está el clima en Bogotá?"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var sent struct {
		Reply chat.Turn `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	require.True(t, sent.Reply.FromWeather)
	require.Contains(t, sent.Reply.Content, "Clima en Bogotá (hoy)")
}

func TestRouter_Unauthorized(t *testing.T) {
	server := newServerUnderTest(t, &stubLookup{}, &stubGenerator{reply: "ok"})

	rec := performRequest(server, http.MethodGet, "/api/v1/chats", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "unauthorized", errBody["error"]["code"])
}

func TestRouter_ForbiddenChat(t *testing.T) {
	server := newServerUnderTest(t, &stubLookup{}, &stubGenerator{reply: "ok"})

	rec := performRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":"ana@example.com","password":"pass1234","nickname":"Ana"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = performRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":"luis@example.com","password":"pass1234","nickname":"Luis"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	anaToken := loginToken(t, server, "ana@example.com", "pass1234")
	luisToken := loginToken(t, server, "luis@example.com", "pass1234")

	rec = performRequest(server, http.MethodPost, "/api/v1/chats", "", anaToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var conv chat.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))

	rec = performRequest(server, http.MethodGet, fmt.Sprintf("/api/v1/chats/%d", conv.ID), "", luisToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_RegisterInvalidJSON(t *testing.T) {
	server := newServerUnderTest(t, &stubLookup{}, &stubGenerator{reply: "ok"})

	rec := performRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":123}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func loginToken(t *testing.T, server *http.Server, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := performRequest(server, http.MethodPost, "/api/v1/auth/login", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func performRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newServerUnderTest(t *testing.T, lookup chat.WeatherLookup, gen chat.TextGenerator) *http.Server {
	t.Helper()
	logger := newTestLogger()

	authSvc := auth.NewService(auth.Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, userrepo.NewMemoryRepository(), logger)

	chatSvc := chat.NewService(
		chatstore.NewMemoryStore(),
		weather.NewKeywordClassifier("Bogotá"),
		lookup,
		weather.NewFormatter(func(int) int { return 0 }),
		gen,
		chat.Options{MaxContextTurns: 50},
		logger,
	)

	handler := NewHandler(authSvc, chatSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, authSvc, logger)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

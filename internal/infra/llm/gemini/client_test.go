package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateExtractsFirstCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req GenerateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Equal(t, []Part{{Text: "Hola"}, {Text: "¿Qué tal?"}}, req.Contents[0].Parts)

		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "Muy bien, gracias."}]}}],
			"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 5, "totalTokenCount": 12}
		}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "gemini-pro", time.Second)
	require.NoError(t, err)

	reply, usage, err := client.Generate(context.Background(), []string{"Hola", "¿Qué tal?"})
	require.NoError(t, err)
	require.Equal(t, "Muy bien, gracias.", reply)
	require.Equal(t, 7, usage.PromptTokens)
	require.Equal(t, 12, usage.TotalTokens)
}

func TestGenerateMissingCandidatePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "gemini-pro", time.Second)
	require.NoError(t, err)

	reply, _, err := client.Generate(context.Background(), []string{"Hola"})
	require.NoError(t, err)
	require.Equal(t, NoReplyText, reply)
}

func TestGenerateNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "gemini-pro", time.Second)
	require.NoError(t, err)

	_, _, err = client.Generate(context.Background(), []string{"Hola"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "", "gemini-pro", 0)
	require.Error(t, err)

	_, err = NewClient("key", "", "", 0)
	require.Error(t, err)
}

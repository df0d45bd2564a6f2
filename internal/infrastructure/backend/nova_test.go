package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNova_SubmitRichRequest(t *testing.T) {
	var got novaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/model/nova-test/invoke", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Write([]byte(`{"output":{"message":{"content":[{"text":"결과: true, 사유: 테두리 없음"}]}}}`))
	}))
	defer server.Close()

	b := NewNova(server.URL, "secret", "nova-test", 5*time.Second)
	text, err := b.Submit(context.Background(), []byte("img"), "검수하세요", "image/png")
	require.NoError(t, err)
	require.Contains(t, text, "테두리 없음")

	require.Equal(t, "messages-v1", got.SchemaVersion)
	require.Len(t, got.System, 1)
	require.Equal(t, 1000, got.InferenceConfig.MaxNewTokens)

	// Формат изображения — метка без MIME-префикса.
	require.Len(t, got.Messages, 1)
	image, ok := got.Messages[0].Content[0]["image"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "png", image["format"])
}

func TestNova_FallsBackToMinimalRequest(t *testing.T) {
	var requests []novaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req novaRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		requests = append(requests, req)

		if len(requests) == 1 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"output":{"message":{"content":[{"text":"결과: false, 사유: 파란색 테두리"}]}}}`))
	}))
	defer server.Close()

	b := NewNova(server.URL, "secret", "nova-test", 5*time.Second)
	text, err := b.Submit(context.Background(), []byte("img"), "검수하세요", "image/png")
	require.NoError(t, err)
	require.Contains(t, text, "파란색 테두리")

	require.Len(t, requests, 2)
	require.NotEmpty(t, requests[0].System)
	require.Empty(t, requests[1].System)
}

func TestNova_PersistentFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	b := NewNova(server.URL, "key", "nova-test", 5*time.Second)
	_, err := b.Submit(context.Background(), []byte("img"), "검수하세요", "image/png")
	require.Error(t, err)
	require.Equal(t, 2, calls)

	te, ok := AsTransportError(err)
	require.True(t, ok)
	require.Equal(t, KindNetwork, te.Kind)
	require.Equal(t, "nova-test", te.Backend)
}

func TestMediaFormat(t *testing.T) {
	require.Equal(t, "png", mediaFormat("image/png"))
	require.Equal(t, "jpeg", mediaFormat("image/jpeg"))
	require.Equal(t, "png", mediaFormat("png"))
}

func TestBackendFactory(t *testing.T) {
	cfg := ClientConfig{BaseURL: "http://localhost", Model: "m"}

	conversational, err := New(FamilyConversational, cfg)
	require.NoError(t, err)
	require.IsType(t, &AnthropicBackend{}, conversational)

	visionClient, err := New(FamilyVision, cfg)
	require.NoError(t, err)
	require.IsType(t, &NovaBackend{}, visionClient)

	_, err = New("unknown", cfg)
	require.Error(t, err)
}

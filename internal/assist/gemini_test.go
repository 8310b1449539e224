package assist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebrisaludos/internal/config"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newGeminiServer(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewGeminiClient(config.AssistConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		TextModel:  "text-model",
		ImageModel: "image-model",
	})
	require.NotNil(t, client)
	return client
}

func TestNewGeminiClientUnconfigured(t *testing.T) {
	assert.Nil(t, NewGeminiClient(config.AssistConfig{}))
}

func TestGeminiGenerateText(t *testing.T) {
	client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/text-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Contains(t, string(raw), "hello prompt")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"1. One"},{"text":"\n2. Two"}]}}]}`))
	})

	text, err := client.GenerateText(context.Background(), "hello prompt")
	require.NoError(t, err)
	assert.Equal(t, "1. One\n2. Two", text)
}

func TestGeminiGenerateTextEmpty(t *testing.T) {
	client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, ErrExternalServiceUnavailable)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiErrorStatus(t *testing.T) {
	client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"model overloaded"}}`))
	})

	_, err := client.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, ErrExternalServiceUnavailable)
	assert.Contains(t, err.Error(), "model overloaded")

	_, err = client.GenerateImage(context.Background(), "x")
	assert.ErrorIs(t, err, ErrExternalServiceUnavailable)
}

func TestGeminiGenerateImage(t *testing.T) {
	client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/image-model:predict", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(raw), `"sampleCount":1`)

		encoded := base64.StdEncoding.EncodeToString(pngBytes)
		_, _ = w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"` + encoded + `","mimeType":"image/png"}]}`))
	})

	img, err := client.GenerateImage(context.Background(), "cake")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.MIME)
}

func TestGeminiGenerateImageNoPayload(t *testing.T) {
	client := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	})

	img, err := client.GenerateImage(context.Background(), "cake")
	require.NoError(t, err)
	assert.Empty(t, img.Data)
}

func TestGeminiUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewGeminiClient(config.AssistConfig{APIKey: "k", BaseURL: url, TextModel: "m"})
	_, err := client.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, ErrExternalServiceUnavailable)
}

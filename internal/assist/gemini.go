package assist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"celebrisaludos/internal/config"
)

const maxResponseBytes = 20 << 20

// GeminiClient talks to the Generative Language REST API.
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
}

// NewGeminiClient returns nil when no API key is configured so the gateway stays in canned mode.
func NewGeminiClient(cfg config.AssistConfig) *GeminiClient {
	if cfg.APIKey == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	res, err := c.call(ctx, c.textModel, "generateContent", body)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, part := range gjson.GetBytes(res, "candidates.0.content.parts.#.text").Array() {
		parts = append(parts, part.String())
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		reason := gjson.GetBytes(res, "promptFeedback.blockReason").String()
		return "", fmt.Errorf("%w: empty text response %s", ErrExternalServiceUnavailable, reason)
	}
	return text, nil
}

func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	body := map[string]any{
		"instances": []map[string]string{{"prompt": prompt}},
		"parameters": map[string]any{
			"sampleCount":    1,
			"outputMimeType": "image/jpeg",
		},
	}

	res, err := c.call(ctx, c.imageModel, "predict", body)
	if err != nil {
		return Image{}, err
	}

	prediction := gjson.GetBytes(res, "predictions.0")
	encoded := prediction.Get("bytesBase64Encoded").String()
	if encoded == "" {
		return Image{}, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Image{}, fmt.Errorf("%w: decode image: %v", ErrExternalServiceUnavailable, err)
	}
	return Image{Data: data, MIME: prediction.Get("mimeType").String()}, nil
}

func (c *GeminiClient) call(ctx context.Context, model, method string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:%s", c.baseURL, model, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalServiceUnavailable, err)
	}
	defer resp.Body.Close()

	res, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrExternalServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(res, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s %d: %s", ErrExternalServiceUnavailable, method, resp.StatusCode, msg)
	}
	return res, nil
}

package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NovaBackend — клиент лёгкого бэкенда, заточенного под зрение.
// Формат запроса messages-v1, конверт ответа — вложенный объект
// output.message.content без тегов блоков.
type NovaBackend struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewNova создаёт клиент зрительного семейства.
func NewNova(baseURL, apiKey, model string, timeout time.Duration) *NovaBackend {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &NovaBackend{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// ID возвращает идентификатор модели.
func (b *NovaBackend) ID() string {
	return b.model
}

// Submit отправляет изображение с инструкцией: богатый запрос с системным
// блоком, при отказе один повтор минимальным запросом.
func (b *NovaBackend) Submit(ctx context.Context, imageBytes []byte, instruction string, mediaType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageBytes)
	format := mediaFormat(mediaType)

	text, err := b.post(ctx, b.richRequest(encoded, instruction, format))
	if err == nil {
		return text, nil
	}

	text, err = b.post(ctx, b.minimalRequest(encoded, instruction, format))
	if err != nil {
		return "", err
	}
	return text, nil
}

type novaRequest struct {
	SchemaVersion   string          `json:"schemaVersion"`
	System          []novaText      `json:"system,omitempty"`
	Messages        []novaMessage   `json:"messages"`
	InferenceConfig novaInferConfig `json:"inferenceConfig"`
}

type novaText struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string      `json:"role"`
	Content []anyObject `json:"content"`
}

type novaInferConfig struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

func (b *NovaBackend) richRequest(imageB64, instruction, format string) novaRequest {
	req := b.minimalRequest(imageB64, instruction, format)
	req.System = []novaText{{Text: inspectionSystemPrompt}}
	return req
}

func (b *NovaBackend) minimalRequest(imageB64, instruction, format string) novaRequest {
	return novaRequest{
		SchemaVersion: "messages-v1",
		Messages: []novaMessage{{
			Role: "user",
			Content: []anyObject{
				{
					"image": anyObject{
						"format": format,
						"source": anyObject{"bytes": imageB64},
					},
				},
				{"text": instruction},
			},
		}},
		InferenceConfig: novaInferConfig{MaxNewTokens: 1000, Temperature: 0},
	}
}

func (b *NovaBackend) post(ctx context.Context, payload novaRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindMalformed, Err: err}
	}

	endpoint := fmt.Sprintf("%s/model/%s/invoke", b.baseURL, url.PathEscape(b.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindNetwork, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindNetwork, Err: err}
	}

	if resp.StatusCode >= 400 {
		return "", &TransportError{
			Backend: b.model,
			Kind:    classifyStatus(resp.StatusCode),
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(respBody)),
		}
	}

	text, err := ExtractText(respBody)
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindMalformed, Err: err}
	}
	return text, nil
}

// mediaFormat выделяет метку формата из MIME-типа: image/png → png.
func mediaFormat(mediaType string) string {
	if i := strings.IndexByte(mediaType, '/'); i >= 0 {
		return mediaType[i+1:]
	}
	return mediaType
}

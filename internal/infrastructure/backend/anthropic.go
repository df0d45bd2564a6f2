package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const anthropicVersion = "bedrock-2023-05-31"

// Максимальный размер читаемого тела ответа.
const maxResponseBytes = 4 * 1024 * 1024

// Системный промпт богатого запроса: модель работает как проверяющий
// с инструментом чтения изображений.
const inspectionSystemPrompt = `당신은 상품 이미지 검수 전문가입니다.
image_reader 도구를 사용하여 이미지를 분석하고, 제공된 검수 기준에 따라 정확한 판정을 내리세요.
반드시 지정된 출력 형식을 준수해야 합니다.`

// AnthropicBackend — клиент разговорной мультимодальной модели.
// Формат запроса — сообщения с контент-блоками, конверт ответа —
// помеченный список блоков.
type AnthropicBackend struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewAnthropic создаёт клиент разговорного семейства.
func NewAnthropic(baseURL, apiKey, model string, timeout time.Duration) *AnthropicBackend {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnthropicBackend{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// ID возвращает идентификатор модели.
func (b *AnthropicBackend) ID() string {
	return b.model
}

// Submit отправляет изображение с инструкцией. Сначала богатый запрос
// с системным промптом и инструментами; при отказе ровно один повтор
// минимальным прямым запросом, после чего наружу уходит TransportError.
func (b *AnthropicBackend) Submit(ctx context.Context, imageBytes []byte, instruction string, mediaType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageBytes)

	text, err := b.post(ctx, b.richRequest(encoded, instruction, mediaType))
	if err == nil {
		return text, nil
	}

	text, err = b.post(ctx, b.minimalRequest(encoded, instruction, mediaType))
	if err != nil {
		return "", err
	}
	return text, nil
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	System           string             `json:"system,omitempty"`
	Tools            []anthropicTool    `json:"tools,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type anthropicMessage struct {
	Role    string      `json:"role"`
	Content []anyObject `json:"content"`
}

type anyObject map[string]any

func (b *AnthropicBackend) richRequest(imageB64, instruction, mediaType string) anthropicRequest {
	req := b.minimalRequest(imageB64, instruction, mediaType)
	req.System = inspectionSystemPrompt
	req.Tools = []anthropicTool{{
		Name:        "image_reader",
		Description: "Reads and inspects the attached product image.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
	}}
	return req
}

func (b *AnthropicBackend) minimalRequest(imageB64, instruction, mediaType string) anthropicRequest {
	return anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        1000,
		Temperature:      0,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anyObject{
				{
					"type": "image",
					"source": anyObject{
						"type":       "base64",
						"media_type": mediaType,
						"data":       imageB64,
					},
				},
				{"type": "text", "text": instruction},
			},
		}},
	}
}

func (b *AnthropicBackend) post(ctx context.Context, payload anthropicRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindMalformed, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/messages", b.baseURL), bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Backend: b.model, Kind: KindNetwork, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", b.apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)

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

func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}

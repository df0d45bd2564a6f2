package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
)

// Ограничение на размер скачиваемого изображения.
const maxImageBytes = 20 * 1024 * 1024

const userAgent = "photo-inspect/1.0"

// Reason — причина отказа получения изображения.
type Reason string

const (
	ReasonInvalidURL Reason = "invalid_url"
	ReasonNetwork    Reason = "network"
	ReasonNotAnImage Reason = "not_an_image"
)

// FetchError — отказ источника изображений.
type FetchError struct {
	Reason Reason
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError достаёт FetchError из цепочки обёрток.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// HTTPFetcher скачивает изображение по URL и валидирует его до передачи
// в конвейер: только http/https, непустое тело, декодируемый растр.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher создаёт источник изображений с таймаутом на запрос.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch скачивает, проверяет и декодирует изображение.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*entity.ImageSample, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &FetchError{Reason: ReasonInvalidURL, URL: rawURL, Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &FetchError{Reason: ReasonInvalidURL, URL: rawURL, Err: fmt.Errorf("scheme %q is not allowed", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return nil, &FetchError{Reason: ReasonInvalidURL, URL: rawURL, Err: errors.New("empty host")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, &FetchError{Reason: ReasonInvalidURL, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &FetchError{Reason: ReasonNetwork, URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, &FetchError{Reason: ReasonNotAnImage, URL: rawURL, Err: fmt.Errorf("content-type %q", contentType)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, URL: rawURL, Err: err}
	}
	if len(data) == 0 {
		return nil, &FetchError{Reason: ReasonNotAnImage, URL: rawURL, Err: errors.New("empty body")}
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{Reason: ReasonNotAnImage, URL: rawURL, Err: err}
	}

	return &entity.ImageSample{
		SourceURL: rawURL,
		Raw:       data,
		Decoded:   decoded,
		Format:    format,
	}, nil
}

// Sample строит образец из готовых байтов (фото из чата).
// Сбой декодирования здесь терпим: детектор вернёт нулевой сигнал,
// и проверку возьмёт на себя модель.
func Sample(data []byte) *entity.ImageSample {
	sample := &entity.ImageSample{Raw: data}
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		sample.Decoded = decoded
		sample.Format = format
	}
	return sample
}

var _ port.ImageFetcher = (*HTTPFetcher)(nil)

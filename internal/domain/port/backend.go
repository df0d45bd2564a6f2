package port

import "context"

// VisionBackend — транспорт к удалённой мультимодальной модели.
// Реализация отвечает только за доставку запроса и извлечение чистого
// текста из конверта ответа; интерпретацией текста занимается парсер.
type VisionBackend interface {
	// Submit отправляет изображение с инструкцией и возвращает текст ответа.
	// Внутри ровно один повтор: богатый запрос, затем минимальный прямой.
	Submit(ctx context.Context, imageBytes []byte, instruction string, mediaType string) (string, error)

	// ID возвращает идентификатор модели для журнала решений.
	ID() string
}

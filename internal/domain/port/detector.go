package port

import (
	"photo-inspect/internal/domain/entity"
)

// BorderDetector — эвристический детектор цветной рамки по краям изображения.
type BorderDetector interface {
	// Detect анализирует раскодированный растр и возвращает сигнал.
	// Никогда не падает: сбой декодирования кодируется прямо в сигнале
	// и смещает конвейер в сторону проверки моделью.
	Detect(sample *entity.ImageSample) entity.HeuristicSignal
}

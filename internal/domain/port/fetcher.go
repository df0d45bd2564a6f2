package port

import (
	"context"

	"photo-inspect/internal/domain/entity"
)

// ImageFetcher — источник изображений по URL.
// Принимает только http/https, отклоняет пустые тела и не-изображения.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*entity.ImageSample, error)
}

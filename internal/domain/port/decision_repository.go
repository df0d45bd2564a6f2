package port

import (
	"context"

	"photo-inspect/internal/domain/entity"
)

// DecisionRepository — хранилище итоговых решений. Записи только добавляются,
// существующие никогда не перезаписываются.
type DecisionRepository interface {
	// Save копирует запись, присваивает ей идентификатор и сохраняет.
	Save(ctx context.Context, record *entity.DecisionRecord) (string, error)

	// SaveBatch сохраняет пачку по принципу best effort: отказ одного
	// элемента не мешает остальным. Срезы результатов параллельны входу.
	SaveBatch(ctx context.Context, records []*entity.DecisionRecord) ([]string, []error)

	// Get возвращает копию сохранённой записи по идентификатору.
	Get(ctx context.Context, id string) (*entity.DecisionRecord, error)

	// ListRecent возвращает последние записи, от новых к старым.
	ListRecent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error)
}

package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
)

// MemoryDecisionRepository in-memory хранилище решений: только добавление,
// записи никогда не меняются после сохранения.
type MemoryDecisionRepository struct {
	mu      sync.RWMutex
	records map[string]*entity.DecisionRecord
	order   []string // идентификаторы в порядке добавления
}

// NewMemoryDecisionRepository создаёт новое in-memory хранилище решений.
func NewMemoryDecisionRepository() *MemoryDecisionRepository {
	return &MemoryDecisionRepository{
		records: make(map[string]*entity.DecisionRecord),
	}
}

// Save копирует запись, присваивает идентификатор и сохраняет.
func (r *MemoryDecisionRepository) Save(ctx context.Context, record *entity.DecisionRecord) (string, error) {
	id := uuid.NewString()

	r.mu.Lock()
	r.records[id] = record.Clone()
	r.order = append(r.order, id)
	r.mu.Unlock()

	return id, nil
}

// SaveBatch сохраняет пачку записей. В памяти отказов не бывает,
// но контракт best effort сохраняется: срезы параллельны входу.
func (r *MemoryDecisionRepository) SaveBatch(ctx context.Context, records []*entity.DecisionRecord) ([]string, []error) {
	ids := make([]string, len(records))
	errs := make([]error, len(records))
	for i, rec := range records {
		ids[i], errs[i] = r.Save(ctx, rec)
	}
	return ids, errs
}

// Get возвращает копию сохранённой записи.
func (r *MemoryDecisionRepository) Get(ctx context.Context, id string) (*entity.DecisionRecord, error) {
	r.mu.RLock()
	record, exists := r.records[id]
	r.mu.RUnlock()

	if !exists {
		return nil, &PersistenceError{Op: "get", Err: errNotFound(id)}
	}
	return record.Clone(), nil
}

// ListRecent возвращает последние записи, от новых к старым.
func (r *MemoryDecisionRepository) ListRecent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.order) {
		limit = len(r.order)
	}

	out := make([]*entity.DecisionRecord, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[r.order[i]].Clone())
	}
	return out, nil
}

type errNotFound string

func (e errNotFound) Error() string {
	return "record not found: " + string(e)
}

// Проверка реализации интерфейса
var _ port.DecisionRepository = (*MemoryDecisionRepository)(nil)

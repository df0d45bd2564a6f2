package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
)

// RedisOptions — параметры подключения к Redis.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

// DefaultRedisOptions возвращает подключение к локальному Redis.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{Address: "localhost:6379"}
}

// RedisDecisionRepository хранит решения в Redis: JSON-запись по ключу
// и список идентификаторов как индекс свежести. Записи только добавляются.
type RedisDecisionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisDecisionRepository открывает подключение и возвращает хранилище.
func NewRedisDecisionRepository(options RedisOptions) *RedisDecisionRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})
	return &RedisDecisionRepository{client: client, prefix: "inspection"}
}

// Close закрывает подключение к Redis.
func (r *RedisDecisionRepository) Close() error {
	return r.client.Close()
}

// Ping проверяет доступность Redis.
func (r *RedisDecisionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisDecisionRepository) recordKey(id string) string {
	return fmt.Sprintf("%s:record:%s", r.prefix, id)
}

func (r *RedisDecisionRepository) indexKey() string {
	return r.prefix + ":recent"
}

// Save сериализует копию записи и добавляет её идентификатор в индекс свежести.
func (r *RedisDecisionRepository) Save(ctx context.Context, record *entity.DecisionRecord) (string, error) {
	id := uuid.NewString()

	data, err := json.Marshal(record.Clone())
	if err != nil {
		return "", &PersistenceError{Op: "marshal", Err: err}
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(id), data, 0)
		pipe.LPush(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return "", &PersistenceError{Op: "save", Err: err}
	}
	return id, nil
}

// SaveBatch сохраняет пачку по принципу best effort:
// отказ одного элемента не мешает остальным.
func (r *RedisDecisionRepository) SaveBatch(ctx context.Context, records []*entity.DecisionRecord) ([]string, []error) {
	ids := make([]string, len(records))
	errs := make([]error, len(records))
	for i, rec := range records {
		ids[i], errs[i] = r.Save(ctx, rec)
	}
	return ids, errs
}

// Get возвращает сохранённую запись по идентификатору.
func (r *RedisDecisionRepository) Get(ctx context.Context, id string) (*entity.DecisionRecord, error) {
	data, err := r.client.Get(ctx, r.recordKey(id)).Bytes()
	if err == redis.Nil {
		return nil, &PersistenceError{Op: "get", Err: errNotFound(id)}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}

	var record entity.DecisionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &PersistenceError{Op: "unmarshal", Err: err}
	}
	return &record, nil
}

// ListRecent возвращает последние записи по индексу свежести.
// Пропавшие по отдельности записи пропускаются, а не валят выборку.
func (r *RedisDecisionRepository) ListRecent(ctx context.Context, limit int) ([]*entity.DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	ids, err := r.client.LRange(ctx, r.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}

	out := make([]*entity.DecisionRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.DecisionRepository = (*RedisDecisionRepository)(nil)

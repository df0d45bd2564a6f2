package app

import (
	"context"
	"sync"

	"photo-inspect/internal/domain/entity"
)

// BatchService прогоняет набор изображений через конвейер проверки
// на ограниченном пуле воркеров. Проверки независимы: отказ одной
// не трогает остальные.
type BatchService struct {
	inspector *InspectionService
	workers   int
}

// NewBatchService создаёт пакетный сервис с заданным числом воркеров.
func NewBatchService(inspector *InspectionService, workers int) *BatchService {
	if workers <= 0 {
		workers = 4
	}
	return &BatchService{inspector: inspector, workers: workers}
}

// InspectURLs проверяет список URL и возвращает записи решений
// в порядке входа. Отмена кооперативная и действует на границе
// изображений: начатые проверки доводятся до записи, новые не
// начинаются; не начатые элементы в выдачу не попадают.
func (s *BatchService) InspectURLs(ctx context.Context, urls []string, mode entity.PipelineMode) []*entity.DecisionRecord {
	results := make([]*entity.DecisionRecord, len(urls))

	// Начатый конвейер живёт своим таймаутом на вызов,
	// а не отменой пакета.
	runCtx := context.WithoutCancel(ctx)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.inspector.InspectURL(runCtx, urls[i], mode)
			}
		}()
	}

feed:
	for i := range urls {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]*entity.DecisionRecord, 0, len(urls))
	for _, rec := range results {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

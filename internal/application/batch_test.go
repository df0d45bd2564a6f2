package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/infrastructure/backend"
)

type flakyFetcher struct {
	failURL string
}

func (f *flakyFetcher) Fetch(ctx context.Context, url string) (*entity.ImageSample, error) {
	if url == f.failURL {
		return nil, context.DeadlineExceeded
	}
	return &entity.ImageSample{SourceURL: url}, nil
}

func TestInspectURLs_AllProcessedInOrder(t *testing.T) {
	primary := &fakeBackend{id: "a", reply: "결과: true\n사유: 테두리가 전혀 없는 이미지"}
	secondary := &fakeBackend{id: "b"}
	svc := newTestService(cleanSignal(), primary, secondary, &fakeFetcher{})
	batch := NewBatchService(svc, 3)

	urls := []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
		"https://example.com/3.png",
		"https://example.com/4.png",
		"https://example.com/5.png",
	}

	records := batch.InspectURLs(context.Background(), urls, "")
	require.Len(t, records, 5)
	for i, rec := range records {
		require.Equal(t, urls[i], rec.ImageURL)
		require.True(t, rec.FinalResult)
	}
}

func TestInspectURLs_OneFailureDoesNotPoisonBatch(t *testing.T) {
	primary := &fakeBackend{id: "a", reply: "결과: true\n사유: 테두리가 전혀 없는 이미지"}
	secondary := &fakeBackend{id: "b"}
	fetcher := &flakyFetcher{failURL: "https://example.com/3.png"}
	svc := NewInspectionService(cleanSignal(), primary, secondary, fetcher, testInterpreter(), testPipelineConfig())
	batch := NewBatchService(svc, 2)

	urls := []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
		"https://example.com/3.png",
		"https://example.com/4.png",
		"https://example.com/5.png",
	}

	records := batch.InspectURLs(context.Background(), urls, "")
	require.Len(t, records, 5)

	failed := 0
	for _, rec := range records {
		if rec.Failed() {
			failed++
			require.Equal(t, entity.FailureInput, rec.FailureKind)
			require.Equal(t, "https://example.com/3.png", rec.ImageURL)
		}
	}
	require.Equal(t, 1, failed)
}

func TestInspectURLs_TransportFailuresRecorded(t *testing.T) {
	primary := &fakeBackend{id: "a", err: &backend.TransportError{Backend: "a", Kind: backend.KindNetwork}}
	secondary := &fakeBackend{id: "b"}
	svc := newTestService(cleanSignal(), primary, secondary, &fakeFetcher{})
	batch := NewBatchService(svc, 2)

	records := batch.InspectURLs(context.Background(), []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
	}, "")
	require.Len(t, records, 2)
	for _, rec := range records {
		require.True(t, rec.Failed())
		require.Equal(t, entity.FailureTransport, rec.FailureKind)
	}
}

func TestInspectURLs_PreCancelledContext(t *testing.T) {
	primary := &fakeBackend{id: "a", reply: "결과: true\n사유: 테두리가 전혀 없는 이미지"}
	secondary := &fakeBackend{id: "b"}
	svc := newTestService(cleanSignal(), primary, secondary, &fakeFetcher{})
	batch := NewBatchService(svc, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := batch.InspectURLs(ctx, []string{"https://example.com/1.png"}, "")
	require.Empty(t, records)
}

func TestInspectURLs_EmptyInput(t *testing.T) {
	primary := &fakeBackend{id: "a"}
	secondary := &fakeBackend{id: "b"}
	svc := newTestService(cleanSignal(), primary, secondary, &fakeFetcher{})
	batch := NewBatchService(svc, 2)

	records := batch.InspectURLs(context.Background(), nil, "")
	require.Empty(t, records)
}

func TestNewBatchService_DefaultWorkers(t *testing.T) {
	svc := newTestService(cleanSignal(), &fakeBackend{id: "a"}, &fakeBackend{id: "b"}, &fakeFetcher{})
	batch := NewBatchService(svc, 0)
	require.Equal(t, 4, batch.workers)
}

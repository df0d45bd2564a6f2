package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"photo-inspect/internal/domain/entity"
)

func TestSplitURLs(t *testing.T) {
	urls := splitURLs("https://a.com/1.png\n  http://b.com/2.jpg  \nпросто текст\n\nhttps://c.com/3.png")
	require.Equal(t, []string{"https://a.com/1.png", "http://b.com/2.jpg", "https://c.com/3.png"}, urls)

	require.Empty(t, splitURLs("никаких ссылок здесь нет"))
}

func TestFormatRecord_Pass(t *testing.T) {
	rec := &entity.DecisionRecord{
		FinalResult:    true,
		FinalRationale: "테두리가 전혀 없는 이미지 [하이브리드: 1차 단독]",
		StageTrail:     []string{entity.StageHeuristic, entity.StagePrimary},
		Verdicts:       []entity.ModelVerdict{{BackendID: "a"}},
		Elapsed:        1500 * time.Millisecond,
	}

	text := formatRecord(rec)
	require.Contains(t, text, "✅")
	require.Contains(t, text, "heuristic → primary")
	require.Contains(t, text, "1.5 сек")
	require.NotContains(t, text, "Отказ стадии")
}

func TestFormatRecord_Failure(t *testing.T) {
	rec := &entity.DecisionRecord{
		FinalResult:    false,
		FinalRationale: "검수 오류: backend a: network: timeout",
		StageTrail:     []string{entity.StageHeuristic, entity.StagePrimary, entity.StageError},
		FailureKind:    entity.FailureTransport,
	}

	text := formatRecord(rec)
	require.Contains(t, text, "🚫")
	require.Contains(t, text, "Отказ стадии: transport")
}

func TestFormatShort_TruncatesLongURL(t *testing.T) {
	rec := &entity.DecisionRecord{
		FinalResult: false,
		ImageURL:    "https://example.com/" + strings.Repeat("x", 100),
		StageTrail:  []string{entity.StageHeuristic},
	}

	line := formatShort(rec)
	require.Contains(t, line, "🚫")
	require.Contains(t, line, "...")
	require.Less(t, len(line), 120)
}

func TestFormatShort_PhotoWithoutURL(t *testing.T) {
	rec := &entity.DecisionRecord{
		FinalResult: true,
		StageTrail:  []string{entity.StageHeuristic, entity.StagePrimary},
	}
	line := formatShort(rec)
	require.Contains(t, line, "фото")
	require.Contains(t, line, "heuristic→primary")
}

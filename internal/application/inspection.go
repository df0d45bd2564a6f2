package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
	"photo-inspect/internal/parser"
)

// Prompt — версионированный текст инструкции для модели.
type Prompt struct {
	ID   string
	Text string
}

// TrustRule — фразовые списки, по которым первичному вердикту верят
// без эскалации. Подобраны эмпирически и приходят из конфигурации.
type TrustRule struct {
	BorderTerms      []string // словарь рамок для доверенного отказа
	CertaintyPhrases []string // выражения абсолютной уверенности для доверенного допуска
}

// PipelineConfig — неизменяемые настройки конвейера проверки.
type PipelineConfig struct {
	Mode            entity.PipelineMode
	PrimaryPrompt   Prompt // полная политика для первичной модели
	SecondaryPrompt Prompt // более строгий вариант для повторной проверки
	Trust           TrustRule
	CallTimeout     time.Duration // таймаут одного обращения к модели
}

// InspectionService — конечный автомат проверки одного изображения:
// INIT → HEURISTIC → {RESOLVED | MODEL_PRIMARY} → {RESOLVED | MODEL_SECONDARY} → RESOLVED.
// Наружу никогда не уходит ошибка: любой отказ кодируется в записи решения.
type InspectionService struct {
	detector  port.BorderDetector
	primary   port.VisionBackend
	secondary port.VisionBackend
	fetcher   port.ImageFetcher
	interp    *parser.Interpreter
	cfg       PipelineConfig
}

// NewInspectionService собирает конвейер проверки.
func NewInspectionService(
	detector port.BorderDetector,
	primary, secondary port.VisionBackend,
	fetcher port.ImageFetcher,
	interp *parser.Interpreter,
	cfg PipelineConfig,
) *InspectionService {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.Mode == "" {
		cfg.Mode = entity.ModeTwoStage
	}
	return &InspectionService{
		detector:  detector,
		primary:   primary,
		secondary: secondary,
		fetcher:   fetcher,
		interp:    interp,
		cfg:       cfg,
	}
}

// InspectURL скачивает изображение и прогоняет его через конвейер.
// Невозможность получить изображение — это не пропуск проверки,
// а отклонение с видом отказа input.
func (s *InspectionService) InspectURL(ctx context.Context, url string, mode entity.PipelineMode) *entity.DecisionRecord {
	start := time.Now()

	sample, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Printf("Image fetch failed: %v", err)
		return &entity.DecisionRecord{
			ImageURL:       url,
			FinalResult:    false,
			FinalRationale: "이미지 획득 실패: " + err.Error(),
			StageTrail:     []string{entity.StageHeuristic, entity.StageError},
			Heuristic:      entity.HeuristicSignal{Explanation: "fetch-failed"},
			Elapsed:        time.Since(start),
			FailureKind:    entity.FailureInput,
			CreatedAt:      start,
		}
	}

	return s.Inspect(ctx, sample, mode)
}

// Inspect прогоняет образец через конвейер и возвращает запись решения.
// Пустой mode означает режим из конфигурации.
func (s *InspectionService) Inspect(ctx context.Context, sample *entity.ImageSample, mode entity.PipelineMode) *entity.DecisionRecord {
	start := time.Now()
	if mode == "" {
		mode = s.cfg.Mode
	}

	rec := &entity.DecisionRecord{
		ImageURL:  sample.SourceURL,
		CreatedAt: start,
	}
	defer func() {
		rec.Elapsed = time.Since(start)
	}()

	// Стадия эвристики. Дешёвый детерминированный сигнал выполняется
	// всегда первым; положительный — отклоняет без обращения к модели.
	sig := s.detector.Detect(sample)
	rec.Heuristic = sig
	rec.StageTrail = append(rec.StageTrail, entity.StageHeuristic)

	if sig.HasBorder {
		rec.FinalResult = false
		rec.FinalRationale = fmt.Sprintf("이미지 경계에 색상 테두리 탐지됨 (%s, 신뢰도: %.1f%%) [1단계 테두리 검수에서 반려]",
			sig.Explanation, sig.Confidence*100)
		return rec
	}

	// Первичная модель с полной политикой. Сбой декодирования у эвристики
	// сюда уже не доехал как ошибка: он только форсирует эту стадию.
	primaryVerdict, err := s.invoke(ctx, s.primary, sample, s.cfg.PrimaryPrompt)
	rec.StageTrail = append(rec.StageTrail, entity.StagePrimary)
	if err != nil {
		return s.fail(rec, err)
	}
	rec.Verdicts = append(rec.Verdicts, primaryVerdict)

	if mode == entity.ModeSimplified {
		// Упрощённый режим: ровно один вызов модели, без эскалации.
		rec.FinalResult = primaryVerdict.Result
		rec.FinalRationale = primaryVerdict.Rationale + " [2단계 검수: 테두리 없음, 일반 기준 적용]"
		return rec
	}

	if s.trusted(primaryVerdict) {
		rec.FinalResult = primaryVerdict.Result
		rec.FinalRationale = primaryVerdict.Rationale + " [하이브리드: 1차 단독]"
		return rec
	}

	// Эскалация — поза по умолчанию: доверие выше — узкое исключение.
	secondaryVerdict, err := s.invoke(ctx, s.secondary, sample, s.cfg.SecondaryPrompt)
	rec.StageTrail = append(rec.StageTrail, entity.StageSecondary)
	if err != nil {
		return s.fail(rec, err)
	}
	rec.Verdicts = append(rec.Verdicts, secondaryVerdict)

	// Арбитраж: вторая модель всегда главнее при расхождении.
	rec.FinalResult = secondaryVerdict.Result
	rationale := secondaryVerdict.Rationale + " [하이브리드: 1차→2차 재검수]"
	if primaryVerdict.Result != secondaryVerdict.Result {
		rationale += fmt.Sprintf(" [1차: %s, 2차: %s - 2차 우선 적용]",
			verdictWord(primaryVerdict.Result), verdictWord(secondaryVerdict.Result))
	}
	rec.FinalRationale = rationale
	return rec
}

// invoke выполняет одно обращение к модели с таймаутом на вызов
// и разбирает её текст в вердикт.
func (s *InspectionService) invoke(ctx context.Context, b port.VisionBackend, sample *entity.ImageSample, prompt Prompt) (entity.ModelVerdict, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	text, err := b.Submit(callCtx, sample.Raw, prompt.Text, sample.MediaType())
	if err != nil {
		return entity.ModelVerdict{}, err
	}

	result, rationale := s.interp.Interpret(text)
	return entity.ModelVerdict{
		Result:    result,
		Rationale: rationale,
		RawText:   text,
		BackendID: b.ID(),
		PromptID:  prompt.ID,
	}, nil
}

// trusted решает, можно ли поверить первичному вердикту без эскалации.
// Верить можно ровно в двух случаях: отказ с узнаваемой лексикой рамок
// либо допуск с выражением абсолютной уверенности.
func (s *InspectionService) trusted(v entity.ModelVerdict) bool {
	reason := strings.ToLower(v.Rationale)
	if !v.Result {
		return containsAny(reason, s.cfg.Trust.BorderTerms)
	}
	return containsAny(reason, s.cfg.Trust.CertaintyPhrases)
}

// fail закрывает конвейер отказом стадии: решение всё равно выдаётся,
// исключение наружу не уходит.
func (s *InspectionService) fail(rec *entity.DecisionRecord, err error) *entity.DecisionRecord {
	log.Printf("Pipeline stage failed: %v", err)
	rec.StageTrail = append(rec.StageTrail, entity.StageError)
	rec.FinalResult = false
	rec.FailureKind = entity.FailureTransport
	rec.FinalRationale = "검수 오류: " + err.Error()
	return rec
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// verdictWord переводит вердикт в слово для журнала: обоснование
// не должно содержать литералов true/false.
func verdictWord(result bool) string {
	if result {
		return "허용"
	}
	return "반려"
}

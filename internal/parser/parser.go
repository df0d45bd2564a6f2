package parser

import (
	"regexp"
	"strings"
)

// Максимальная длина обоснования в записи решения.
const maxRationaleLen = 500

// Паттерны результата: корейский маркер в приоритете, английский как запасной.
var (
	resultPatternKo = regexp.MustCompile(`(?i)결과\s*:\s*(true|false)`)
	resultPatternEn = regexp.MustCompile(`(?i)result\s*:\s*(true|false)`)
	reasonPatternKo = regexp.MustCompile(`(?i)사유\s*:\s*(.+)`)
	reasonPatternEn = regexp.MustCompile(`(?i)reason\s*:\s*(.+)`)

	// Служебный мусор модели, который нужно убрать до разбора:
	// эхо вызовов инструментов, преамбулы «сначала загружу изображение»,
	// блоки размышлений.
	scaffoldingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)이미지를 분석하기 위해.*?불러오겠습니다\.?`),
		regexp.MustCompile(`(?is)먼저 이미지를.*?불러오겠습니다\.?`),
		regexp.MustCompile(`(?is)이미지 파일을.*?읽겠습니다\.?`),
		regexp.MustCompile(`(?i)Tool #\d+:[^\n]*\n?`),
		regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
	}

	spaceRun       = regexp.MustCompile(`\s+`)
	leadingDashes  = regexp.MustCompile(`^[-\s]+`)
	trailingDots   = regexp.MustCompile(`[.\s]+$`)
	verdictLiteral = regexp.MustCompile(`(?i)\b(true|false)\b`)
)

// Interpreter превращает произвольный текст модели в вердикт.
// Тотальная чистая функция: на любом непустом тексте возвращает пару
// (bool, string) и никогда не падает. Повторный разбор того же текста
// всегда даёт тот же результат.
type Interpreter struct {
	rejectPhrases []string // словарь отклонения: рамки, нарушения, брак
	acceptPhrases []string // словарь допуска: чисто, соответствует критериям
}

// New создаёт интерпретатор с настроенными полярными словарями.
// Списки приходят из конфигурации: это эмпирически подобранные,
// языкозависимые литералы, а не константы кода.
func New(rejectPhrases, acceptPhrases []string) *Interpreter {
	return &Interpreter{
		rejectPhrases: lowerAll(rejectPhrases),
		acceptPhrases: lowerAll(acceptPhrases),
	}
}

// strategy — одна тотальная стратегия извлечения результата.
// ok == false означает «стратегия не применима, пробуем следующую».
type strategy func(cleaned string) (result bool, ok bool)

// Interpret извлекает результат и обоснование из текста ответа модели.
func (p *Interpreter) Interpret(text string) (bool, string) {
	cleaned := Clean(text)

	result := false
	for _, s := range []strategy{markerStrategy, keywordStrategy, p.polarityStrategy} {
		if r, ok := s(cleaned); ok {
			result = r
			break
		}
	}

	return result, p.extractRationale(cleaned)
}

// Clean убирает служебный мусор модели и схлопывает пробелы.
func Clean(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, re := range scaffoldingPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
}

// markerStrategy ищет явный маркер «결과: true/false» либо «result: true/false».
func markerStrategy(cleaned string) (bool, bool) {
	m := resultPatternKo.FindStringSubmatch(cleaned)
	if m == nil {
		m = resultPatternEn.FindStringSubmatch(cleaned)
	}
	if m == nil {
		return false, false
	}
	return strings.EqualFold(m[1], "true"), true
}

// keywordStrategy срабатывает, только когда в тексте встречается ровно
// одно из слов true/false. Если оба или ни одного — передаёт дальше.
func keywordStrategy(cleaned string) (bool, bool) {
	lower := strings.ToLower(cleaned)
	hasTrue := strings.Contains(lower, "true")
	hasFalse := strings.Contains(lower, "false")
	switch {
	case hasTrue && !hasFalse:
		return true, true
	case hasFalse && !hasTrue:
		return false, true
	}
	return false, false
}

// polarityStrategy выводит результат по полярным словарям.
// Словарь отклонения проверяется первым: пропустить нарушение дороже,
// чем лишний раз отклонить, поэтому по умолчанию — отказ.
func (p *Interpreter) polarityStrategy(cleaned string) (bool, bool) {
	lower := strings.ToLower(cleaned)
	for _, phrase := range p.rejectPhrases {
		if strings.Contains(lower, phrase) {
			return false, true
		}
	}
	for _, phrase := range p.acceptPhrases {
		if strings.Contains(lower, phrase) {
			return true, true
		}
	}
	return false, true
}

// extractRationale зеркалит ту же многоярусность, что и извлечение результата:
// явное поле «사유:», иначе первая осмысленная строка, иначе весь текст.
func (p *Interpreter) extractRationale(cleaned string) string {
	m := reasonPatternKo.FindStringSubmatch(cleaned)
	if m == nil {
		m = reasonPatternEn.FindStringSubmatch(cleaned)
	}
	if m != nil {
		return cleanRationale(m[1])
	}

	if line := firstPlausibleLine(cleaned); line != "" {
		return cleanRationale(line)
	}

	// Последний ярус: текст целиком, без маркеров результата.
	rest := resultPatternKo.ReplaceAllString(cleaned, "")
	rest = resultPatternEn.ReplaceAllString(rest, "")
	return cleanRationale(rest)
}

// firstPlausibleLine возвращает первую строку разумной длины,
// не являющуюся строкой результата.
func firstPlausibleLine(cleaned string) string {
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(line, "결과:") || strings.HasPrefix(lower, "result:") {
			continue
		}
		if len(line) > 5 {
			return line
		}
	}
	return ""
}

// cleanRationale нормализует обоснование: убирает ведущую пунктуацию,
// хвостовые точки и сами слова-вердикты, ограничивает длину.
// Контракт записи решения запрещает утечку true/false в обоснование.
func cleanRationale(reason string) string {
	cleaned := strings.TrimSpace(reason)
	cleaned = leadingDashes.ReplaceAllString(cleaned, "")
	cleaned = trailingDots.ReplaceAllString(cleaned, "")
	cleaned = verdictLiteral.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))

	if cleaned == "" {
		return "사유가 명확하지 않습니다"
	}
	if len(cleaned) > maxRationaleLen {
		cleaned = truncateUTF8(cleaned, maxRationaleLen) + "..."
	}
	return cleaned
}

// truncateUTF8 обрезает строку до limit байт, не разрывая руны.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && s[limit]&0xC0 == 0x80 {
		limit--
	}
	return s[:limit]
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, strings.ToLower(it))
	}
	return out
}

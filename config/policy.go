package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy — правила проверки: промпты, словари доверия и ключевых слов,
// параметры детектора. Загружается из YAML; отсутствующий файл означает
// встроенные значения по умолчанию.
type Policy struct {
	Mode           string `yaml:"mode"`
	Workers        int    `yaml:"workers"`
	CallTimeoutSec int    `yaml:"call_timeout_sec"`

	// Идентификаторы активных промптов из таблицы Prompts.
	PrimaryPrompt   string            `yaml:"primary_prompt"`
	SecondaryPrompt string            `yaml:"secondary_prompt"`
	Prompts         map[string]string `yaml:"prompts"`

	Trust    TrustPolicy    `yaml:"trust"`
	Keywords KeywordPolicy  `yaml:"keywords"`
	Detector DetectorPolicy `yaml:"detector"`
}

// TrustPolicy — фразы, по которым первичному вердикту верят без эскалации.
type TrustPolicy struct {
	BorderTerms      []string `yaml:"border_terms"`
	CertaintyPhrases []string `yaml:"certainty_phrases"`
}

// KeywordPolicy — словари полярности для разбора свободного текста модели.
type KeywordPolicy struct {
	Reject []string `yaml:"reject"`
	Accept []string `yaml:"accept"`
}

// DetectorPolicy — переопределения параметров детектора рамок.
// Нулевые значения означают "оставить значение по умолчанию".
type DetectorPolicy struct {
	BandRatio         float64 `yaml:"band_ratio"`
	MinBandThickness  int     `yaml:"min_band_thickness"`
	CenterExclusion   float64 `yaml:"center_exclusion"`
	MatchLow          float64 `yaml:"match_low"`
	MatchHigh         float64 `yaml:"match_high"`
	ColorWeight       float64 `yaml:"color_weight"`
	EdgeWeight        float64 `yaml:"edge_weight"`
	EdgeMagnitude     float64 `yaml:"edge_magnitude"`
	DecisionThreshold float64 `yaml:"decision_threshold"`
}

// promptBalanced — полная политика для первичной модели: теневая зона
// решается эскалацией, поэтому здесь критерии сбалансированные.
const promptBalanced = `상품 이미지 배경 검수 기준:

### FALSE 처리 (위반 사항)
1. **장식용 테두리**: 이미지 가장자리에 색깔 있는 테두리, 프레임, 윤곽선
2. **광고성 텍스트**: 가격, 할인율, 세일 문구, 과도한 마케팅 텍스트

### TRUE 허용 (정상)
1. **브랜드 관련**: 브랜드 로고, 브랜드명, '백화점 공식', '공식 판매처' 등
2. **자연스러운 매장 환경**: 매장 진열대, 옷걸이, 진열 환경, 상점 인테리어
3. **상품 자체**: 패키지, 라벨의 모든 텍스트/디자인
4. **기본 배경**: 단색 배경, 스튜디오 촬영 배경

검수 절차:
1. 이미지 가장자리 테두리 확인 (있으면 FALSE)
2. 광고성 텍스트 확인 (있으면 FALSE)
3. 나머지는 모두 TRUE (매장 배경, 브랜드 요소 포함)

FORMAT:
결과: true 또는 false
사유: 구체적인 판정 근거`

// promptStrict — вариант для повторной проверки: нулевая терпимость
// к рамкам любой толщины и насыщенности.
const promptStrict = `재검수 프로토콜: 이미지 가장자리를 무관용 원칙으로 재검사하세요.

STEP 1: 이미지 경계 검사
- TOP 가장자리: 색깔 있는 라인이 있는가?
- BOTTOM 가장자리: 색깔 있는 라인이 있는가?
- LEFT 가장자리: 색깔 있는 라인이 있는가?
- RIGHT 가장자리: 색깔 있는 라인이 있는가?

STEP 2: 판정 규칙
- 어느 한 가장자리라도 색깔 테두리가 있으면 무조건 FALSE
- 얇거나 희미한 테두리도 모두 FALSE
- 하늘색, 파란색, 어떤 색이든 테두리가 있으면 즉시 불합격

무시할 요소 (항상 허용):
- 브랜드 로고와 텍스트
- 매장 배경: 옷걸이, 진열대
- 상품 패키지 색상
- 자연스러운 촬영 배경

FORMAT:
결과: true 또는 false
사유: 이미지 가장자리에 [색상] 테두리 [발견됨/발견되지 않음]. [상세 설명]`

// DefaultPolicy возвращает встроенную политику проверки.
func DefaultPolicy() *Policy {
	return &Policy{
		Mode:            "two_stage",
		Workers:         4,
		CallTimeoutSec:  60,
		PrimaryPrompt:   "balanced-v3.1",
		SecondaryPrompt: "strict-recheck-v1.9",
		Prompts: map[string]string{
			"balanced-v3.1":       promptBalanced,
			"strict-recheck-v1.9": promptStrict,
		},
		Trust: TrustPolicy{
			BorderTerms: []string{
				"테두리", "윤곽선", "경계선", "네모", "라인",
				"border", "frame", "outline", "boundary", "edge", "line",
			},
			CertaintyPhrases: []string{
				"테두리가 전혀 없", "border가 전혀 없", "완전히 깨끗한", "전혀 문제없",
			},
		},
		Keywords: KeywordPolicy{
			Reject: []string{
				"부적합", "실패했", "위반", "테두리가 있", "문제가 있",
				"failed", "violation", "inappropriate", "has border",
			},
			Accept: []string{
				"통과", "문제없", "문제가 없", "기준 충족", "깔끔",
				"clean", "meets", "criteria", "appropriate", "no border",
			},
		},
	}
}

// LoadPolicy читает политику из YAML поверх значений по умолчанию.
// Отсутствующий файл — это не ошибка: работаем на встроенной политике.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return policy, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return policy, nil
}

// ActivePrompt возвращает текст промпта по идентификатору из таблицы.
func (p *Policy) ActivePrompt(id string) (string, error) {
	text, ok := p.Prompts[id]
	if !ok {
		return "", fmt.Errorf("unknown prompt version: %s", id)
	}
	return text, nil
}

package vision

import (
	"fmt"
	"strings"
)

// HueRange — диапазон тона в пространстве HSV OpenCV (H: 0..180, S и V: 0..255).
// Перечень фиксированный: тёплые и холодные хроматические цвета, без серой шкалы —
// белые и чёрные полосы слишком часто оказываются обычным фоном съёмки.
type HueRange struct {
	Name       string
	MinH, MaxH float64
	MinS, MinV float64
}

var borderHues = []HueRange{
	{Name: "blue1", MinH: 90, MaxH: 130, MinS: 30, MinV: 30},
	{Name: "blue2", MinH: 100, MaxH: 140, MinS: 50, MinV: 50},
	{Name: "cyan", MinH: 75, MaxH: 105, MinS: 30, MinV: 30},
	{Name: "red1", MinH: 0, MaxH: 10, MinS: 50, MinV: 50},
	{Name: "red2", MinH: 170, MaxH: 180, MinS: 50, MinV: 50},
	{Name: "green", MinH: 35, MaxH: 85, MinS: 50, MinV: 50},
	{Name: "yellow", MinH: 15, MaxH: 45, MinS: 50, MinV: 50},
	{Name: "magenta", MinH: 125, MaxH: 175, MinS: 50, MinV: 50},
	{Name: "orange", MinH: 5, MaxH: 25, MinS: 50, MinV: 50},
}

// Config — параметры эвристики. Все значения приходят из конфигурации,
// в коде только дефолты.
type Config struct {
	BandThicknessRatio   float64 // доля меньшей стороны, уходящая в краевую полосу
	MinBandThickness     int     // нижняя граница толщины полосы в пикселях
	CenterExclusionRatio float64 // доля ширины/высоты центрального прямоугольника, исключаемого из анализа
	MatchLow             float64 // ниже — шум, совпадение не считается
	MatchHigh            float64 // выше — доминирующая заливка товара, а не тонкая рамка
	ColorWeight          float64 // вес цветового сигнала
	EdgeWeight           float64 // вес краевого сигнала; не меньше цветового
	EdgeMagnitude        float64 // порог модуля градиента яркости для краевого пикселя
	DecisionThreshold    float64 // порог итоговой уверенности
}

// DefaultConfig возвращает откалиброванные на продуктовых фото параметры.
func DefaultConfig() Config {
	return Config{
		BandThicknessRatio:   0.05,
		MinBandThickness:     5,
		CenterExclusionRatio: 0.88,
		MatchLow:             0.20,
		MatchHigh:            0.95,
		ColorWeight:          0.4,
		EdgeWeight:           0.6,
		EdgeMagnitude:        96,
		DecisionThreshold:    0.15,
	}
}

// matchedHue — один совпавший оттенок с его долей в полосе.
type matchedHue struct {
	name  string
	ratio float64
}

// buildExplanation собирает человекочитаемое описание сигнала:
// какие оттенки совпали и какова доля краевых пикселей.
func buildExplanation(matched []matchedHue, edgeRatio float64) string {
	var parts []string
	if len(matched) > 0 {
		names := make([]string, 0, len(matched))
		for _, m := range matched {
			names = append(names, fmt.Sprintf("%s(%.1f%%)", m.name, m.ratio*100))
		}
		parts = append(parts, "색상 탐지: "+strings.Join(names, ", "))
	}
	parts = append(parts, fmt.Sprintf("경계선 비율: %.1f%%", edgeRatio*100))
	if len(matched) == 0 && edgeRatio == 0 {
		return "특별한 테두리 패턴 없음"
	}
	return strings.Join(parts, "; ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

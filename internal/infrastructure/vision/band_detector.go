//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"math"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
)

// BandDetector ищет цветную рамку по краевой полосе изображения.
// Чистая реализация без OpenCV: сборка с тегом gocv подменяет её
// ускоренным вариантом с той же семантикой.
type BandDetector struct {
	cfg Config
}

// NewBandDetector создаёт детектор с заданными параметрами эвристики.
func NewBandDetector(cfg Config) *BandDetector {
	return &BandDetector{cfg: cfg}
}

// Detect считает уверенность в наличии рамки по краевой полосе.
// Сбой декодирования не блокирует конвейер: возвращается нулевой сигнал,
// который смещает проверку в сторону модели.
func (d *BandDetector) Detect(sample *entity.ImageSample) entity.HeuristicSignal {
	if sample == nil || sample.Decoded == nil {
		return entity.HeuristicSignal{Explanation: "decode-failed"}
	}

	img := sample.Decoded
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 2 || h < 2 {
		return entity.HeuristicSignal{Explanation: "decode-failed"}
	}

	band := d.bandMask(w, h)

	// Один проход по растру: яркость для градиента и HSV для цветов.
	gray := make([]float64, w*h)
	hueCounts := make([]int, len(borderHues))
	totalBand := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := float64(r>>8), float64(g>>8), float64(b>>8)
			gray[y*w+x] = 0.299*r8 + 0.587*g8 + 0.114*b8

			if !band.contains(x, y) {
				continue
			}
			totalBand++

			hue, sat, val := rgbToHSV(r8, g8, b8)
			for i, hr := range borderHues {
				if hue >= hr.MinH && hue <= hr.MaxH && sat >= hr.MinS && val >= hr.MinV {
					hueCounts[i]++
				}
			}
		}
	}

	if totalBand == 0 {
		return entity.HeuristicSignal{Explanation: "특별한 테두리 패턴 없음"}
	}

	// Совпавшим считается оттенок строго между нижней и верхней границей:
	// ниже — шум, выше — заливка товара во всю полосу.
	var matched []matchedHue
	colorSum := 0.0
	for i, hr := range borderHues {
		ratio := float64(hueCounts[i]) / float64(totalBand)
		if ratio > d.cfg.MatchLow && ratio < d.cfg.MatchHigh {
			matched = append(matched, matchedHue{name: hr.Name, ratio: ratio})
			colorSum += ratio
		}
	}

	edgeRatio := d.edgeRatio(gray, w, h, band, totalBand)

	confidence := clamp01(d.cfg.ColorWeight*colorSum + d.cfg.EdgeWeight*edgeRatio)
	return entity.HeuristicSignal{
		HasBorder:   confidence > d.cfg.DecisionThreshold,
		Confidence:  confidence,
		Explanation: buildExplanation(matched, edgeRatio),
	}
}

// bandMask описывает краевую полосу минус центральный прямоугольник.
type bandMask struct {
	w, h      int
	thickness int
	center    image.Rectangle
}

func (d *BandDetector) bandMask(w, h int) bandMask {
	minSide := w
	if h < minSide {
		minSide = h
	}

	thickness := int(float64(minSide) * d.cfg.BandThicknessRatio)
	if thickness < d.cfg.MinBandThickness {
		thickness = d.cfg.MinBandThickness
	}
	if thickness > minSide/2 {
		thickness = minSide / 2
	}
	if thickness < 1 {
		thickness = 1
	}

	cw := int(float64(w) * d.cfg.CenterExclusionRatio)
	ch := int(float64(h) * d.cfg.CenterExclusionRatio)
	center := image.Rect((w-cw)/2, (h-ch)/2, (w-cw)/2+cw, (h-ch)/2+ch)

	return bandMask{w: w, h: h, thickness: thickness, center: center}
}

func (m bandMask) contains(x, y int) bool {
	inBand := x < m.thickness || x >= m.w-m.thickness ||
		y < m.thickness || y >= m.h-m.thickness
	if !inBand {
		return false
	}
	return !(image.Pt(x, y).In(m.center))
}

// edgeRatio — доля пикселей полосы, лежащих на границе яркости.
// Оператор Собеля по серому каналу, независимо от цвета рамки.
func (d *BandDetector) edgeRatio(gray []float64, w, h int, band bandMask, totalBand int) float64 {
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return gray[y*w+x]
	}

	edgeCount := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !band.contains(x, y) {
				continue
			}
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			// Нормировка на максимум ядра, чтобы порог жил в шкале 0..255.
			if math.Hypot(gx, gy)/4 > d.cfg.EdgeMagnitude {
				edgeCount++
			}
		}
	}
	return float64(edgeCount) / float64(totalBand)
}

// rgbToHSV переводит цвет в HSV с осями OpenCV: H в [0,180), S и V в [0,255].
// Константы диапазонов оттенков заданы именно в этой шкале.
func rgbToHSV(r, g, b float64) (hue, sat, val float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	val = maxC

	delta := maxC - minC
	if maxC > 0 {
		sat = delta / maxC * 255
	}
	if delta == 0 {
		return 0, sat, val
	}

	switch maxC {
	case r:
		hue = 60 * math.Mod((g-b)/delta, 6)
	case g:
		hue = 60 * ((b-r)/delta + 2)
	default:
		hue = 60 * ((r-g)/delta + 4)
	}
	if hue < 0 {
		hue += 360
	}
	return hue / 2, sat, val
}

var _ port.BorderDetector = (*BandDetector)(nil)

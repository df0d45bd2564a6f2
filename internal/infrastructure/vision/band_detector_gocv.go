//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
)

// BandDetector ищет цветную рамку по краевой полосе изображения.
// Вариант на OpenCV: включается тегом сборки gocv, семантика совпадает
// с чистой реализацией.
type BandDetector struct {
	cfg Config
}

// NewBandDetector создаёт детектор с заданными параметрами эвристики.
func NewBandDetector(cfg Config) *BandDetector {
	return &BandDetector{cfg: cfg}
}

// Detect считает уверенность в наличии рамки по краевой полосе.
func (d *BandDetector) Detect(sample *entity.ImageSample) entity.HeuristicSignal {
	if sample == nil || len(sample.Raw) == 0 {
		return entity.HeuristicSignal{Explanation: "decode-failed"}
	}

	mat, err := gocv.IMDecode(sample.Raw, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if !mat.Empty() {
			mat.Close()
		}
		return entity.HeuristicSignal{Explanation: "decode-failed"}
	}
	defer mat.Close()

	w, h := mat.Cols(), mat.Rows()
	if w < 2 || h < 2 {
		return entity.HeuristicSignal{Explanation: "decode-failed"}
	}

	band := d.buildBandMask(w, h)
	defer band.Close()

	totalBand := gocv.CountNonZero(band)
	if totalBand == 0 {
		return entity.HeuristicSignal{Explanation: "특별한 테두리 패턴 없음"}
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	var matched []matchedHue
	colorSum := 0.0
	for _, hr := range borderHues {
		mask := gocv.NewMat()
		gocv.InRangeWithScalar(hsv,
			gocv.NewScalar(hr.MinH, hr.MinS, hr.MinV, 0),
			gocv.NewScalar(hr.MaxH, 255, 255, 0),
			&mask)

		banded := gocv.NewMat()
		gocv.BitwiseAnd(mask, band, &banded)
		ratio := float64(gocv.CountNonZero(banded)) / float64(totalBand)
		banded.Close()
		mask.Close()

		if ratio > d.cfg.MatchLow && ratio < d.cfg.MatchHigh {
			matched = append(matched, matchedHue{name: hr.Name, ratio: ratio})
			colorSum += ratio
		}
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(d.cfg.EdgeMagnitude/2), float32(d.cfg.EdgeMagnitude*1.5))

	bandEdges := gocv.NewMat()
	defer bandEdges.Close()
	gocv.BitwiseAnd(edges, band, &bandEdges)
	edgeRatio := float64(gocv.CountNonZero(bandEdges)) / float64(totalBand)

	confidence := clamp01(d.cfg.ColorWeight*colorSum + d.cfg.EdgeWeight*edgeRatio)
	return entity.HeuristicSignal{
		HasBorder:   confidence > d.cfg.DecisionThreshold,
		Confidence:  confidence,
		Explanation: buildExplanation(matched, edgeRatio),
	}
}

// buildBandMask рисует краевую полосу и вырезает из неё центральный прямоугольник.
func (d *BandDetector) buildBandMask(w, h int) gocv.Mat {
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

	mask := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.Rectangle(&mask, image.Rect(0, 0, w, thickness), white, -1)
	gocv.Rectangle(&mask, image.Rect(0, h-thickness, w, h), white, -1)
	gocv.Rectangle(&mask, image.Rect(0, 0, thickness, h), white, -1)
	gocv.Rectangle(&mask, image.Rect(w-thickness, 0, w, h), white, -1)

	cw := int(float64(w) * d.cfg.CenterExclusionRatio)
	ch := int(float64(h) * d.cfg.CenterExclusionRatio)
	center := image.Rect((w-cw)/2, (h-ch)/2, (w-cw)/2+cw, (h-ch)/2+ch)
	gocv.Rectangle(&mask, center, color.RGBA{}, -1)

	return mask
}

var _ port.BorderDetector = (*BandDetector)(nil)

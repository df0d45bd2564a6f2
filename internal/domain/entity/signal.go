package entity

// HeuristicSignal — вывод детерминированного детектора рамки.
// Инвариант: HasBorder == true только когда Confidence выше порога детектора.
type HeuristicSignal struct {
	HasBorder   bool    // найдена ли цветная рамка по краям
	Confidence  float64 // всегда в [0, 1]
	Explanation string  // какие оттенки совпали и доля краевых пикселей
}

package entity

import "time"

// Имена стадий конвейера в том порядке, в котором они могут выполняться.
const (
	StageHeuristic = "heuristic"
	StagePrimary   = "primary"
	StageSecondary = "secondary"
	StageError     = "error"
)

// FailureKind — классификация отказа конвейера.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureInput       FailureKind = "input"       // плохой URL или не-изображение
	FailureTransport   FailureKind = "transport"   // отказ модели после встроенного повтора
	FailurePersistence FailureKind = "persistence" // отказ записи в хранилище
)

// DecisionRecord — итоговый неизменяемый результат проверки одного изображения.
// После выхода конвейера в терминальное состояние запись больше не меняется;
// хранилище при сохранении делает собственную копию и присваивает идентификатор.
type DecisionRecord struct {
	ImageURL       string
	FinalResult    bool
	FinalRationale string
	StageTrail     []string // непустой, первый элемент всегда StageHeuristic
	Verdicts       []ModelVerdict
	Heuristic      HeuristicSignal
	Elapsed        time.Duration
	FailureKind    FailureKind
	CreatedAt      time.Time
}

// Failed сообщает, завершилась ли проверка отказом какой-либо стадии.
func (r *DecisionRecord) Failed() bool {
	return r.FailureKind != FailureNone
}

// ModelCalls возвращает число фактических обращений к моделям.
func (r *DecisionRecord) ModelCalls() int {
	return len(r.Verdicts)
}

// Clone делает независимую копию записи для передачи в хранилище.
func (r *DecisionRecord) Clone() *DecisionRecord {
	cp := *r
	cp.StageTrail = append([]string(nil), r.StageTrail...)
	cp.Verdicts = append([]ModelVerdict(nil), r.Verdicts...)
	return &cp
}

package entity

// ModelVerdict — структурированный итог одного обращения к модели.
type ModelVerdict struct {
	Result    bool   // допуск (true) или отклонение (false)
	Rationale string // обоснование; по контракту не содержит слов true/false
	RawText   string // исходный текст ответа модели, как он пришёл от транспорта
	BackendID string // идентификатор модели
	PromptID  string // версия использованного промпта
}

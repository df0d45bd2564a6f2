package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото товара
	StateAwaitingBatch UserState = "awaiting_batch" // Ожидание списка URL для пакетной проверки
	StateProcessing    UserState = "processing"     // Проверка изображения
)

// PipelineMode — вариант конвейера проверки для пользователя.
type PipelineMode string

const (
	// ModeTwoStage — эвристика, затем первичная модель с эскалацией ко второй.
	ModeTwoStage PipelineMode = "two_stage"
	// ModeSimplified — эвристика как окончательный фильтр и ровно один вызов модели.
	ModeSimplified PipelineMode = "simplified"
)

// User представляет пользователя бота
type User struct {
	ID     int64        // Telegram User ID
	ChatID int64        // Telegram Chat ID
	State  UserState    // Текущее состояние пользователя
	Mode   PipelineMode // Выбранный вариант конвейера
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
		Mode:   ModeTwoStage,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetMode переключает вариант конвейера для пользователя.
func (u *User) SetMode(mode PipelineMode) {
	u.Mode = mode
}

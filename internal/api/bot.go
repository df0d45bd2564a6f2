package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "photo-inspect/internal/application"
	"photo-inspect/internal/domain/entity"
	"photo-inspect/internal/domain/port"
	"photo-inspect/internal/infrastructure/fetch"
)

const (
	msgStart = `👋 Привет! Я бот проверки товарных фотографий на соответствие правилам площадки.

📸 Отправьте фото товара или ссылку на изображение — я проверю рамки и рекламный текст.

📋 Команды:
/check — проверить одно изображение
/batch — пакетная проверка по списку ссылок
/mode — переключить режим проверки
/recent — последние решения
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото товара или URL изображения
2️⃣ Бот прогонит его через конвейер проверки
3️⃣ Вы получите вердикт с обоснованием

🧪 Конвейер: быстрая проверка рамок по пикселям, затем модель,
при сомнении — повторная проверка второй моделью.

📋 Команды:
/check — одно изображение
/batch — список ссылок (по одной на строку)
/mode — режим: двухэтапный или упрощённый
/recent — последние решения
/cancel — отменить операцию`

	msgAwaitingPhoto  = "📸 Отправьте фото товара или ссылку на изображение."
	msgAwaitingBatch  = "📦 Отправьте список ссылок на изображения, по одной на строку."
	msgCancelled      = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing     = "⏳ Проверяю изображение..."
	msgBatchRunning   = "⏳ Запускаю пакетную проверку..."
	msgDownloadError  = "⚠️ Не удалось получить изображение. Попробуйте ещё раз."
	msgNoRecent       = "📭 Сохранённых решений пока нет."
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *app.UserService
	inspector *app.InspectionService
	batch     *app.BatchService
	decisions port.DecisionRepository
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, inspector *app.InspectionService, batch *app.BatchService, decisions port.DecisionRepository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		users:     users,
		inspector: inspector,
		batch:     batch,
		decisions: decisions,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.GetOrCreate(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	if text := strings.TrimSpace(msg.Text); text != "" {
		b.handleText(ctx, msg, user, text)
		return
	}

	b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.users.Cancel(ctx, user.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		b.users.BeginCheck(ctx, user.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "batch":
		b.users.BeginBatch(ctx, user.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingBatch)

	case "mode":
		b.toggleMode(ctx, msg, user)

	case "recent":
		b.sendRecent(ctx, msg.Chat.ID)

	case "cancel":
		b.users.Cancel(ctx, user.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// toggleMode переключает режим конвейера для пользователя
func (b *Bot) toggleMode(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	next := entity.ModeSimplified
	label := "упрощённый (один вызов модели)"
	if user.Mode == entity.ModeSimplified {
		next = entity.ModeTwoStage
		label = "двухэтапный (с эскалацией ко второй модели)"
	}

	if err := b.users.SetMode(ctx, user.ID, user.ChatID, next); err != nil {
		log.Printf("Error setting mode: %v", err)
		return
	}
	b.sendMessage(msg.Chat.ID, "🔀 Режим проверки: "+label)
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	b.users.BeginCheck(ctx, user.ID)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgDownloadError)
		b.users.Cancel(ctx, user.ID)
		return
	}

	record := b.inspector.Inspect(ctx, fetch.Sample(imageData), user.Mode)
	b.persist(ctx, record)
	b.sendMessage(msg.Chat.ID, formatRecord(record))

	b.users.Cancel(ctx, user.ID)
}

// handleText обрабатывает текст: один URL или список для пакетной проверки
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, user *entity.User, text string) {
	urls := splitURLs(text)
	if len(urls) == 0 {
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
		return
	}

	if len(urls) == 1 && user.State != entity.StateAwaitingBatch {
		b.sendMessage(msg.Chat.ID, msgProcessing)
		record := b.inspector.InspectURL(ctx, urls[0], user.Mode)
		b.persist(ctx, record)
		b.sendMessage(msg.Chat.ID, formatRecord(record))
		b.users.Cancel(ctx, user.ID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgBatchRunning)
	records := b.batch.InspectURLs(ctx, urls, user.Mode)

	if _, errs := b.decisions.SaveBatch(ctx, records); errs != nil {
		for _, err := range errs {
			if err != nil {
				log.Printf("Error saving decision: %v", err)
			}
		}
	}

	var sb strings.Builder
	passed := 0
	for i, record := range records {
		if record.FinalResult {
			passed++
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatShort(record))
	}
	fmt.Fprintf(&sb, "\nИтого: %d из %d прошли проверку", passed, len(records))
	b.sendMessage(msg.Chat.ID, sb.String())

	b.users.Cancel(ctx, user.ID)
}

// sendRecent отправляет последние сохранённые решения
func (b *Bot) sendRecent(ctx context.Context, chatID int64) {
	records, err := b.decisions.ListRecent(ctx, 10)
	if err != nil {
		log.Printf("Error listing decisions: %v", err)
		b.sendMessage(chatID, msgNoRecent)
		return
	}
	if len(records) == 0 {
		b.sendMessage(chatID, msgNoRecent)
		return
	}

	var sb strings.Builder
	sb.WriteString("🕘 Последние решения:\n\n")
	for i, record := range records {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatShort(record))
	}
	b.sendMessage(chatID, sb.String())
}

// persist сохраняет решение; отказ хранилища не отменяет уже выданный вердикт
func (b *Bot) persist(ctx context.Context, record *entity.DecisionRecord) {
	if _, err := b.decisions.Save(ctx, record); err != nil {
		log.Printf("Error saving decision: %v", err)
	}
}

// formatRecord собирает подробный ответ по одному решению
func formatRecord(record *entity.DecisionRecord) string {
	var sb strings.Builder

	if record.FinalResult {
		sb.WriteString("✅ Проверка пройдена\n\n")
	} else {
		sb.WriteString("🚫 Проверка не пройдена\n\n")
	}
	sb.WriteString("📝 " + record.FinalRationale + "\n")
	fmt.Fprintf(&sb, "🧭 Стадии: %s\n", strings.Join(record.StageTrail, " → "))
	fmt.Fprintf(&sb, "🤖 Обращений к моделям: %d\n", record.ModelCalls())
	fmt.Fprintf(&sb, "⏱ Время: %.1f сек", record.Elapsed.Seconds())

	if record.Failed() {
		fmt.Fprintf(&sb, "\n⚠️ Отказ стадии: %s", record.FailureKind)
	}
	return sb.String()
}

// formatShort собирает однострочную сводку для списков
func formatShort(record *entity.DecisionRecord) string {
	mark := "✅"
	if !record.FinalResult {
		mark = "🚫"
	}
	label := record.ImageURL
	if label == "" {
		label = "фото"
	}
	if len(label) > 60 {
		label = label[:57] + "..."
	}
	return fmt.Sprintf("%s %s (%s)", mark, label, strings.Join(record.StageTrail, "→"))
}

// splitURLs выбирает из текста строки, похожие на ссылки
func splitURLs(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			urls = append(urls, line)
		}
	}
	return urls
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

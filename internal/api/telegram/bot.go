package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/domain/port"
	"fruit-quality-bot/internal/logging"
	"fruit-quality-bot/internal/report"
)

const (
	msgStart = `🍎 Привет! Я оцениваю качество фруктов по фотографии.

📷 Сфотографируйте фрукт камерой или 📁 пришлите снимок файлом (JPEG или PNG), и я скажу, хороший он или нет.

📋 Команды:
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

📷 Снимок с камеры:
1️⃣ Разрешите доступ к камере
2️⃣ Поместите фрукт в кадр
3️⃣ Отправьте фото

📁 Загрузка файла:
1️⃣ Нажмите «Прикрепить» → «Файл»
2️⃣ Выберите чёткое фото фрукта
3️⃣ Дождитесь анализа

🍓 Поддерживаемые фрукты:
• Яблоки • Апельсины • Бананы
• Виноград • Клубника • Манго`

	msgSendPhoto       = "📸 Пожалуйста, отправьте фото фрукта."
	msgUnsupportedFile = "📁 Поддерживаются только изображения JPEG и PNG."
	msgFileTooLarge    = "📁 Файл слишком большой."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую качество фрукта..."
)

var supportedDocumentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	assessor    port.Assessor
	logger      *zap.Logger
	httpClient  *http.Client
	maxFileSize int64
}

// NewBot создаёт нового бота
func NewBot(token string, assessor port.Assessor, maxFileSize int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram api: %w", err)
	}

	logger = logger.Named("telegram")
	logger.Info("authorized on account", zap.String("username", api.Self.UserName))

	return &Bot{
		api:         api,
		assessor:    assessor,
		logger:      logger,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxFileSize: maxFileSize,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Обработка команд
	if msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, commandReply(msg.Command()))
		return
	}

	// Фото из камеры Telegram сжимает, берём максимальное разрешение
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg.Chat.ID, photo.FileID, int64(photo.FileSize), entity.SourceCamera)
		return
	}

	// Изображение, отправленное файлом
	if msg.Document != nil {
		if !supportedDocumentTypes[strings.ToLower(msg.Document.MimeType)] {
			b.sendMessage(msg.Chat.ID, msgUnsupportedFile)
			return
		}
		b.handleImage(ctx, msg.Chat.ID, msg.Document.FileID, int64(msg.Document.FileSize), entity.SourceUpload)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func commandReply(command string) string {
	switch command {
	case "start":
		return msgStart
	case "help":
		return msgHelp
	default:
		return msgUnknownCommand
	}
}

// handleImage скачивает изображение, оценивает его и отвечает карточкой результата
func (b *Bot) handleImage(ctx context.Context, chatID int64, fileID string, size int64, source entity.Source) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(b.logger, "telegram.handle_image", requestID).
		With(zap.Int64("chat_id", chatID), zap.String("source", string(source)))

	if b.maxFileSize > 0 && size > b.maxFileSize {
		b.sendMessage(chatID, msgFileTooLarge)
		return
	}

	b.sendMessage(chatID, msgProcessing)

	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		opLogger.Error("failed to download file", zap.Error(err))
		b.sendMessage(chatID, report.MsgRetry)
		return
	}

	b.sendMessage(chatID, b.assessmentReply(ctx, requestID, data, source))
}

// assessmentReply возвращает текст ответа: карточку или сообщение об ошибке
func (b *Bot) assessmentReply(ctx context.Context, requestID string, data []byte, source entity.Source) string {
	out, err := b.assessor.Assess(ctx, entity.AssessmentRequest{ID: requestID, Data: data, Source: source})
	if err != nil {
		logging.WithOperation(b.logger, "telegram.assess", requestID).Warn("assessment failed", zap.Error(err))
		return report.ErrorMessage(err)
	}
	return report.Build(out).Text()
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if b.maxFileSize > 0 {
		body = io.LimitReader(resp.Body, b.maxFileSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if b.maxFileSize > 0 && int64(len(data)) > b.maxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", b.maxFileSize)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

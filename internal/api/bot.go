package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"pcb-vision/internal/domain/entity"
	"pcb-vision/internal/domain/port"
)

// ErrEmptyOutput выходного видео нет или оно пустое.
var ErrEmptyOutput = errors.New("output video is missing or empty")

// captionRecords сколько координат дефектов попадает в подпись.
const captionRecords = 5

// Sender часть tgbotapi.BotAPI, нужная для отправки.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot отправляет готовое видео в Telegram-чат
type Bot struct {
	api    Sender
	chatID int64
	log    logrus.FieldLogger
}

// NewBot создаёт нового бота
func NewBot(token string, chatID int64, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Infof("Authorized on account %s", api.Self.UserName)

	return NewBotWithSender(api, chatID, log), nil
}

// NewBotWithSender создаёт бота поверх готового клиента
func NewBotWithSender(api Sender, chatID int64, log logrus.FieldLogger) *Bot {
	return &Bot{api: api, chatID: chatID, log: log}
}

// Publish отправляет видео с краткой сводкой в подписи
func (b *Bot) Publish(ctx context.Context, summary *entity.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(summary.OutputPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyOutput, summary.OutputPath)
	}

	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FilePath(summary.OutputPath))
	doc.Caption = Caption(summary)

	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send video: %w", err)
	}

	b.log.WithField("chat_id", b.chatID).Info("output video delivered")
	return nil
}

// Caption формирует подпись к видео
func Caption(summary *entity.RunSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎬 Обработано кадров: %d (%dx%d, %d fps)\n", summary.FramesOut, summary.Width, summary.Height, summary.FPS)

	if summary.TotalDefects() == 0 {
		sb.WriteString("✅ Позиционные дефекты не обнаружены.")
		return sb.String()
	}

	fmt.Fprintf(&sb, "⚠️ Позиционных дефектов: %d", summary.TotalDefects())
	severities := make([]string, 0, len(summary.Defects))
	for sev := range summary.Defects {
		severities = append(severities, string(sev))
	}
	sort.Strings(severities)
	for _, sev := range severities {
		fmt.Fprintf(&sb, "\n• %s: %d", sev, summary.Defects[entity.Severity(sev)])
	}

	for i, rec := range summary.Records {
		if i == captionRecords {
			fmt.Fprintf(&sb, "\n… и ещё %d", len(summary.Records)-captionRecords)
			break
		}
		fmt.Fprintf(&sb, "\n📍 кадр %d: %s (%d, %d)", rec.Frame, rec.Label, rec.X, rec.Y)
	}

	return sb.String()
}

var _ port.Publisher = (*Bot)(nil)

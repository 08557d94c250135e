package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"pcb-vision/internal/domain/entity"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func writeVideo(t *testing.T, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "out.mp4")
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
	return p
}

func TestBot_Publish(t *testing.T) {
	sender := &fakeSender{}
	log, _ := test.NewNullLogger()
	bot := NewBotWithSender(sender, 42, log)

	summary := &entity.RunSummary{
		OutputPath: writeVideo(t, 128),
		Width:      1280,
		Height:     720,
		FPS:        30,
		FramesOut:  10,
		Defects:    map[entity.Severity]int{entity.SeverityCritical: 2},
	}
	require.NoError(t, bot.Publish(context.Background(), summary))
	require.Len(t, sender.sent, 1)

	doc, ok := sender.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	require.Equal(t, int64(42), doc.ChatID)
	require.Contains(t, doc.Caption, "CRITICAL: 2")
}

func TestBot_PublishSkipsEmptyOutput(t *testing.T) {
	sender := &fakeSender{}
	log, _ := test.NewNullLogger()
	bot := NewBotWithSender(sender, 42, log)

	err := bot.Publish(context.Background(), &entity.RunSummary{OutputPath: writeVideo(t, 0)})
	require.ErrorIs(t, err, ErrEmptyOutput)

	err = bot.Publish(context.Background(), &entity.RunSummary{OutputPath: filepath.Join(t.TempDir(), "none.mp4")})
	require.ErrorIs(t, err, ErrEmptyOutput)
	require.Empty(t, sender.sent)
}

func TestBot_PublishSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("network")}
	log, _ := test.NewNullLogger()
	bot := NewBotWithSender(sender, 42, log)

	err := bot.Publish(context.Background(), &entity.RunSummary{OutputPath: writeVideo(t, 1)})
	require.ErrorContains(t, err, "send video")
}

func TestCaption(t *testing.T) {
	clean := Caption(&entity.RunSummary{FramesOut: 3, Width: 1280, Height: 720, FPS: 30})
	require.Contains(t, clean, "Обработано кадров: 3 (1280x720, 30 fps)")
	require.Contains(t, clean, "не обнаружены")

	withDefects := Caption(&entity.RunSummary{Defects: map[entity.Severity]int{
		entity.SeverityMinor:    1,
		entity.SeverityCritical: 2,
	}})
	require.Contains(t, withDefects, "Позиционных дефектов: 3")
	require.Less(t, strings.Index(withDefects, "CRITICAL"), strings.Index(withDefects, "MINOR"))
}

func TestCaption_ListsDefectCoordinates(t *testing.T) {
	records := make([]entity.DefectRecord, 7)
	for i := range records {
		records[i] = entity.DefectRecord{Frame: i + 1, Label: "Missing_Hole", X: 10 * i, Y: 20, Severity: entity.SeverityCritical}
	}
	caption := Caption(&entity.RunSummary{
		Defects: map[entity.Severity]int{entity.SeverityCritical: len(records)},
		Records: records,
	})

	require.Contains(t, caption, "кадр 1: Missing_Hole (0, 20)")
	require.Contains(t, caption, "кадр 5: Missing_Hole (40, 20)")
	require.NotContains(t, caption, "кадр 6:")
	require.Contains(t, caption, "и ещё 2")
}

package botapi

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
)

// api is the part of *tgbotapi.BotAPI the messenger needs.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger implements handler.Messenger over the Bot API. Calls are
// synchronous HTTP requests; ctx is not forwarded because the library does
// not take one.
type Messenger struct {
	api api
}

var _ handler.Messenger = (*Messenger)(nil)

func keyboard(buttons []handler.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (m *Messenger) Send(ctx context.Context, chat handler.Chat, replyTo int, text string, buttons []handler.Button) (int, error) {
	msg := tgbotapi.NewMessage(chat.ID, text)
	msg.ReplyToMessageID = replyTo
	msg.DisableWebPagePreview = true
	if len(buttons) > 0 {
		msg.ReplyMarkup = keyboard(buttons)
	}

	sent, err := m.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message failed: %w", err)
	}
	return sent.MessageID, nil
}

func (m *Messenger) Edit(ctx context.Context, chat handler.Chat, msgID int, text string, buttons []handler.Button) error {
	var edit tgbotapi.EditMessageTextConfig
	if len(buttons) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chat.ID, msgID, text, keyboard(buttons))
	} else {
		edit = tgbotapi.NewEditMessageText(chat.ID, msgID, text)
	}
	edit.DisableWebPagePreview = true

	if _, err := m.api.Request(edit); err != nil {
		return fmt.Errorf("edit message %d failed: %w", msgID, err)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, chat handler.Chat, msgID int) error {
	if _, err := m.api.Request(tgbotapi.NewDeleteMessage(chat.ID, msgID)); err != nil {
		return fmt.Errorf("delete message %d failed: %w", msgID, err)
	}
	return nil
}

func (m *Messenger) Answer(ctx context.Context, queryID, text string) error {
	if _, err := m.api.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		return fmt.Errorf("answer callback failed: %w", err)
	}
	return nil
}

func (m *Messenger) SendVideo(ctx context.Context, chat handler.Chat, replyTo int, v handler.Video) error {
	f, err := os.Open(v.Path)
	if err != nil {
		return fmt.Errorf("open video failed: %w", err)
	}
	defer f.Close()

	video := tgbotapi.NewVideo(chat.ID, tgbotapi.FileReader{Name: v.Name, Reader: f})
	video.Caption = v.Caption
	video.SupportsStreaming = true
	video.ReplyToMessageID = replyTo

	if _, err := m.api.Send(video); err != nil {
		return fmt.Errorf("send video failed: %w", err)
	}
	return nil
}

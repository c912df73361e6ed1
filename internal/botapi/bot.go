// Package botapi is the webhook transport on the HTTP Bot API.
package botapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// staleAfter drops messages Telegram redelivers after downtime.
const staleAfter = 5 * time.Minute

type Options struct {
	Token     string
	Endpoint  string // Bot API url template, empty for api.telegram.org
	PublicURL string
	Client    *http.Client
}

type Bot struct {
	bot       *tgbotapi.BotAPI
	api       api
	sink      handler.Sink
	publicURL string
	now       func() time.Time
}

// New logs in with getMe. Attach a sink before serving webhooks.
func New(opts Options) (*Bot, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	b, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("bot api login failed: %w", err)
	}
	logger.Info("Bot API connected", "username", b.Self.UserName)

	return &Bot{
		bot:       b,
		api:       b,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

func (b *Bot) Attach(sink handler.Sink) {
	b.sink = sink
}

func (b *Bot) Messenger() *Messenger {
	return &Messenger{api: b.api}
}

func (b *Bot) WebhookURL() string {
	return b.publicURL + "/webhook"
}

// Run replaces any previous webhook with ours and waits for ctx. Updates
// arrive through HandleWebhook.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("remove webhook failed: %w", err)
	}

	wh, err := tgbotapi.NewWebhook(b.WebhookURL())
	if err != nil {
		return fmt.Errorf("build webhook failed: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("set webhook failed: %w", err)
	}
	logger.Info("Webhook set", "url", b.WebhookURL())

	<-ctx.Done()
	return nil
}

// HandleWebhook decodes one update from r and hands it to the sink.
func (b *Bot) HandleWebhook(r *http.Request) error {
	update, err := b.bot.HandleUpdate(r)
	if err != nil {
		return err
	}
	b.Dispatch(r.Context(), *update)
	return nil
}

func (b *Bot) Dispatch(ctx context.Context, update tgbotapi.Update) {
	if b.sink == nil {
		logger.Warn("Update received before a sink was attached", "update_id", update.UpdateID)
		return
	}

	switch {
	case update.Message != nil:
		msg, ok := b.message(update.Message)
		if ok {
			b.sink.OnMessage(ctx, msg)
		}
	case update.CallbackQuery != nil:
		cb, ok := callback(update.CallbackQuery)
		if ok {
			b.sink.OnCallback(ctx, cb)
		}
	}
}

func (b *Bot) message(m *tgbotapi.Message) (handler.Message, bool) {
	if m.Chat == nil || m.Text == "" {
		return handler.Message{}, false
	}
	if b.now().Sub(m.Time()) > staleAfter {
		logger.Info("Ignoring old message", "chat", m.Chat.ID, "id", m.MessageID)
		return handler.Message{}, false
	}

	var sender int64
	if m.From != nil {
		sender = m.From.ID
	}
	return handler.Message{
		Chat:     handler.Chat{ID: m.Chat.ID},
		ID:       m.MessageID,
		SenderID: sender,
		Text:     m.Text,
	}, true
}

func callback(q *tgbotapi.CallbackQuery) (handler.Callback, bool) {
	if q.Message == nil || q.Message.Chat == nil {
		return handler.Callback{}, false
	}

	var sender int64
	if q.From != nil {
		sender = q.From.ID
	}
	return handler.Callback{
		Chat:      handler.Chat{ID: q.Message.Chat.ID},
		QueryID:   q.ID,
		MessageID: q.Message.MessageID,
		SenderID:  sender,
		Data:      q.Data,
	}, true
}

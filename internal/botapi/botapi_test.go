package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
)

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	err      error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: 77}, f.err
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: f.err == nil}, f.err
}

type fakeSink struct {
	messages  []handler.Message
	callbacks []handler.Callback
}

func (s *fakeSink) OnMessage(ctx context.Context, msg handler.Message) {
	s.messages = append(s.messages, msg)
}

func (s *fakeSink) OnCallback(ctx context.Context, cb handler.Callback) {
	s.callbacks = append(s.callbacks, cb)
}

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testBot(api *fakeAPI, sink handler.Sink) *Bot {
	return &Bot{
		bot:       &tgbotapi.BotAPI{},
		api:       api,
		sink:      sink,
		publicURL: "https://example.onrender.com",
		now:       func() time.Time { return now },
	}
}

func TestMessengerSend(t *testing.T) {
	api := &fakeAPI{}
	m := &Messenger{api: api}

	id, err := m.Send(context.Background(), handler.Chat{ID: 5}, 3, "pick one", []handler.Button{
		{Label: "⬇️ 720p", Data: "dl1|youtube|720p|u"},
		{Label: "⬇️ 360p", Data: "dl1|youtube|360p|u"},
	})
	require.NoError(t, err)
	assert.Equal(t, 77, id)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(5), msg.ChatID)
	assert.Equal(t, 3, msg.ReplyToMessageID)
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	require.NotNil(t, markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "dl1|youtube|360p|u", *markup.InlineKeyboard[1][0].CallbackData)
}

func TestMessengerEditDeleteAnswer(t *testing.T) {
	api := &fakeAPI{}
	m := &Messenger{api: api}
	chat := handler.Chat{ID: 5}

	require.NoError(t, m.Edit(context.Background(), chat, 9, "done", nil))
	require.NoError(t, m.Edit(context.Background(), chat, 9, "choose", []handler.Button{{Label: "a", Data: "b"}}))
	require.NoError(t, m.Delete(context.Background(), chat, 9))
	require.NoError(t, m.Answer(context.Background(), "q1", "⏳ Downloading..."))
	require.Len(t, api.requests, 4)

	plain := api.requests[0].(tgbotapi.EditMessageTextConfig)
	assert.Nil(t, plain.ReplyMarkup)
	withKeys := api.requests[1].(tgbotapi.EditMessageTextConfig)
	assert.NotNil(t, withKeys.ReplyMarkup)
	assert.Equal(t, tgbotapi.NewDeleteMessage(5, 9), api.requests[2])
	assert.Equal(t, tgbotapi.NewCallback("q1", "⏳ Downloading..."), api.requests[3])

	api.err = errors.New("Bad Request: message to delete not found")
	assert.Error(t, m.Delete(context.Background(), chat, 9))
}

func TestMessengerSendVideo(t *testing.T) {
	api := &fakeAPI{}
	m := &Messenger{api: api}
	path := filepath.Join(t.TempDir(), "clipgrab-x.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))

	err := m.SendVideo(context.Background(), handler.Chat{ID: 5}, 11, handler.Video{Path: path, Name: "YouTube 720p.mp4", Caption: "ok"})
	require.NoError(t, err)

	video := api.sent[0].(tgbotapi.VideoConfig)
	assert.Equal(t, "ok", video.Caption)
	assert.Equal(t, 11, video.ReplyToMessageID)
	assert.True(t, video.SupportsStreaming)
	assert.Equal(t, "YouTube 720p.mp4", video.File.(tgbotapi.FileReader).Name)

	assert.Error(t, m.SendVideo(context.Background(), handler.Chat{ID: 5}, 0, handler.Video{Path: path + ".missing"}))
}

func updateRequest(t *testing.T, u tgbotapi.Update) *http.Request {
	t.Helper()
	body, err := json.Marshal(u)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(body)))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestHandleWebhook(t *testing.T) {
	sink := &fakeSink{}
	b := testBot(&fakeAPI{}, sink)

	msg := tgbotapi.Update{UpdateID: 1, Message: &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: 99},
		Chat:      &tgbotapi.Chat{ID: 5},
		Date:      int(now.Add(-time.Minute).Unix()),
		Text:      "https://youtu.be/abc",
	}}
	require.NoError(t, b.HandleWebhook(updateRequest(t, msg)))

	cb := tgbotapi.Update{UpdateID: 2, CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q1",
		From:    &tgbotapi.User{ID: 99},
		Message: &tgbotapi.Message{MessageID: 12, Chat: &tgbotapi.Chat{ID: 5}},
		Data:    "dl1|youtube|720p|https://youtu.be/abc",
	}}
	require.NoError(t, b.HandleWebhook(updateRequest(t, cb)))

	require.Len(t, sink.messages, 1)
	assert.Equal(t, handler.Message{Chat: handler.Chat{ID: 5}, ID: 10, SenderID: 99, Text: "https://youtu.be/abc"}, sink.messages[0])
	require.Len(t, sink.callbacks, 1)
	assert.Equal(t, "q1", sink.callbacks[0].QueryID)
	assert.Equal(t, 12, sink.callbacks[0].MessageID)
}

func TestDispatchSkipsStaleAndEmpty(t *testing.T) {
	sink := &fakeSink{}
	b := testBot(&fakeAPI{}, sink)

	b.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 5},
		Date: int(now.Add(-time.Hour).Unix()),
		Text: "https://youtu.be/old",
	}})
	b.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 5},
		Date: int(now.Unix()),
	}})
	b.Dispatch(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "inline", Data: "x"}})

	assert.Empty(t, sink.messages)
	assert.Empty(t, sink.callbacks)
}

func TestRunSetsWebhook(t *testing.T) {
	api := &fakeAPI{}
	b := testBot(api, &fakeSink{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, b.Run(ctx))

	require.Len(t, api.requests, 2)
	assert.Equal(t, tgbotapi.DeleteWebhookConfig{}, api.requests[0])
	wh := api.requests[1].(tgbotapi.WebhookConfig)
	assert.Equal(t, "https://example.onrender.com/webhook", wh.URL.String())
}

package telegram

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// Messenger implements handler.Messenger over MTProto. Chats must carry the
// tg.InputPeerClass the update arrived with.
type Messenger struct {
	api *tg.Client
}

var _ handler.Messenger = (*Messenger)(nil)

func inputPeer(chat handler.Chat) (tg.InputPeerClass, error) {
	p, ok := chat.Peer.(tg.InputPeerClass)
	if !ok || p == nil {
		return nil, errors.Errorf("chat %d has no input peer", chat.ID)
	}
	return p, nil
}

// keyboard lays buttons out one per row. No buttons means no markup.
func keyboard(buttons []handler.Button) tg.ReplyMarkupClass {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([]tg.KeyboardButtonRow, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tg.KeyboardButtonRow{
			Buttons: []tg.KeyboardButtonClass{
				&tg.KeyboardButtonCallback{Text: b.Label, Data: []byte(b.Data)},
			},
		})
	}
	return &tg.ReplyInlineMarkup{Rows: rows}
}

func (m *Messenger) Send(ctx context.Context, chat handler.Chat, replyTo int, text string, buttons []handler.Button) (int, error) {
	peer, err := inputPeer(chat)
	if err != nil {
		return 0, err
	}

	b := message.NewSender(m.api).To(peer).NoWebpage()
	if replyTo != 0 {
		b = b.Reply(replyTo)
	}
	if markup := keyboard(buttons); markup != nil {
		b = b.Markup(markup)
	}

	updates, err := b.Text(ctx, text)
	if err != nil {
		return 0, errors.Wrap(err, "send message")
	}
	return getMsgID(updates), nil
}

func (m *Messenger) Edit(ctx context.Context, chat handler.Chat, msgID int, text string, buttons []handler.Button) error {
	peer, err := inputPeer(chat)
	if err != nil {
		return err
	}

	req := &tg.MessagesEditMessageRequest{
		Peer:      peer,
		ID:        msgID,
		Message:   text,
		NoWebpage: true,
	}
	if markup := keyboard(buttons); markup != nil {
		req.ReplyMarkup = markup
	}
	if _, err := m.api.MessagesEditMessage(ctx, req); err != nil {
		return errors.Wrapf(err, "edit message %d", msgID)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, chat handler.Chat, msgID int) error {
	peer, err := inputPeer(chat)
	if err != nil {
		return err
	}

	if channelPeer, ok := peer.(*tg.InputPeerChannel); ok {
		_, err = m.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{
				ChannelID:  channelPeer.ChannelID,
				AccessHash: channelPeer.AccessHash,
			},
			ID: []int{msgID},
		})
	} else {
		_, err = m.api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
			ID:     []int{msgID},
			Revoke: true,
		})
	}
	if err != nil {
		return errors.Wrapf(err, "delete message %d", msgID)
	}
	return nil
}

func (m *Messenger) Answer(ctx context.Context, queryID, text string) error {
	id, err := strconv.ParseInt(queryID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "parse query id %q", queryID)
	}
	_, err = m.api.MessagesSetBotCallbackAnswer(ctx, &tg.MessagesSetBotCallbackAnswerRequest{
		QueryID: id,
		Message: text,
	})
	if err != nil {
		return errors.Wrap(err, "answer callback")
	}
	return nil
}

func (m *Messenger) SendVideo(ctx context.Context, chat handler.Chat, replyTo int, v handler.Video) error {
	peer, err := inputPeer(chat)
	if err != nil {
		return err
	}

	file, err := uploader.NewUploader(m.api).FromPath(ctx, v.Path)
	if err != nil {
		return errors.Wrap(err, "upload video")
	}

	upload := message.UploadedDocument(file, styling.Plain(v.Caption)).
		MIME("video/mp4").
		Filename(v.Name).
		Attributes(&tg.DocumentAttributeVideo{SupportsStreaming: true})

	to := message.NewSender(m.api).To(peer)
	if replyTo != 0 {
		_, err = to.Reply(replyTo).Media(ctx, upload)
	} else {
		_, err = to.Media(ctx, upload)
	}
	if err != nil {
		return errors.Wrap(err, "send video")
	}

	logger.Debug("Video sent", "chat", chat.ID, "file", v.Name)
	return nil
}

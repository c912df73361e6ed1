package telegram

import (
	"context"
	"strconv"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// Attach routes new messages and button clicks to sink.
func (c *Client) Attach(sink handler.Sink) {
	onMessage := func(ctx context.Context, e tg.Entities, m tg.MessageClass) error {
		msg, ok := m.(*tg.Message)
		if !ok || msg.Out {
			return nil
		}
		in, err := c.message(msg, e)
		if err != nil {
			logger.Warn("Dropping message", "id", msg.ID, "error", err)
			return nil
		}
		sink.OnMessage(ctx, in)
		return nil
	}

	c.dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		return onMessage(ctx, e, u.Message)
	})
	c.dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		return onMessage(ctx, e, u.Message)
	})
	c.dispatcher.OnBotCallbackQuery(func(ctx context.Context, e tg.Entities, u *tg.UpdateBotCallbackQuery) error {
		cb, err := c.callback(u, e)
		if err != nil {
			logger.Warn("Dropping callback", "query", u.QueryID, "error", err)
			return nil
		}
		sink.OnCallback(ctx, cb)
		return nil
	})
}

func (c *Client) message(msg *tg.Message, e tg.Entities) (handler.Message, error) {
	peer, err := c.peers.resolve(msg.PeerID, e)
	if err != nil {
		return handler.Message{}, err
	}
	return handler.Message{
		Chat:     handler.Chat{ID: peerID(msg.PeerID), Peer: peer},
		ID:       msg.ID,
		SenderID: senderID(msg),
		Text:     msg.Message,
	}, nil
}

func (c *Client) callback(u *tg.UpdateBotCallbackQuery, e tg.Entities) (handler.Callback, error) {
	peer, err := c.peers.resolve(u.Peer, e)
	if err != nil {
		return handler.Callback{}, err
	}
	return handler.Callback{
		Chat:      handler.Chat{ID: peerID(u.Peer), Peer: peer},
		QueryID:   strconv.FormatInt(u.QueryID, 10),
		MessageID: u.MsgID,
		SenderID:  u.UserID,
		Data:      string(u.Data),
	}, nil
}

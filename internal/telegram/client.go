// Package telegram is the MTProto transport. It logs in as a bot with gotd,
// turns new messages and button clicks into handler updates and implements
// handler.Messenger on the raw API.
package telegram

import (
	"context"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

type Options struct {
	AppID      int
	AppHash    string
	BotToken   string
	SessionDir string
}

type Client struct {
	client     *telegram.Client
	api        *tg.Client
	dispatcher tg.UpdateDispatcher
	peers      *peerCache
	token      string
}

// NewClient prepares a client. Nothing connects until Run; call Attach
// before that so updates have somewhere to go.
func NewClient(opts Options) *Client {
	dispatcher := tg.NewUpdateDispatcher()
	client := telegram.NewClient(opts.AppID, opts.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: filepath.Join(opts.SessionDir, "session.json")},
		UpdateHandler:  dispatcher,
	})

	return &Client{
		client:     client,
		api:        client.API(),
		dispatcher: dispatcher,
		peers:      newPeerCache(),
		token:      opts.BotToken,
	}
}

// Run connects, logs in and blocks until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return errors.Wrap(err, "auth status")
		}

		if !status.Authorized {
			if _, err := c.client.Auth().Bot(ctx, c.token); err != nil {
				return errors.Wrap(err, "bot login")
			}
		}

		me, err := c.client.Self(ctx)
		if err != nil {
			return errors.Wrap(err, "get self")
		}

		logger.Info("Telegram client connected", "username", me.Username, "id", me.ID)

		<-ctx.Done()
		return nil
	})
}

// Messenger returns the handler-facing side of the client.
func (c *Client) Messenger() *Messenger {
	return &Messenger{api: c.api}
}

package handler

import (
	"context"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/internal/provider"
)

// Chat identifies a conversation. Peer carries whatever the transport needs
// to address it again (an input peer for MTProto, nothing for the Bot API).
type Chat struct {
	ID   int64
	Peer any
}

// Button is one inline keyboard entry. Data is returned verbatim on click.
type Button struct {
	Label string
	Data  string
}

// Message is an inbound text message.
type Message struct {
	Chat     Chat
	ID       int
	SenderID int64
	Text     string
}

// Callback is an inbound button click. MessageID is the message holding the
// keyboard.
type Callback struct {
	Chat      Chat
	QueryID   string
	MessageID int
	SenderID  int64
	Data      string
}

// Video is a local file to upload. Name is what the recipient sees.
type Video struct {
	Path    string
	Name    string
	Caption string
}

// Messenger is the chat transport as seen by the handlers. Buttons are laid
// out one per row.
type Messenger interface {
	Send(ctx context.Context, chat Chat, replyTo int, text string, buttons []Button) (int, error)
	Edit(ctx context.Context, chat Chat, msgID int, text string, buttons []Button) error
	Delete(ctx context.Context, chat Chat, msgID int) error
	Answer(ctx context.Context, queryID, text string) error
	SendVideo(ctx context.Context, chat Chat, replyTo int, v Video) error
}

// Sink accepts updates decoded by a transport.
type Sink interface {
	OnMessage(ctx context.Context, msg Message)
	OnCallback(ctx context.Context, cb Callback)
}

type Resolver interface {
	Resolve(ctx context.Context, url string, tag platform.Tag) (*provider.Metadata, error)
}

type Downloader interface {
	Download(ctx context.Context, url string, tag platform.Tag, quality string) (string, error)
}

// Recorder receives per-platform outcomes for /stats.
type Recorder interface {
	TrackRequest(tag platform.Tag)
	TrackDownload(tag platform.Tag, ok bool)
}

type nopRecorder struct{}

func (nopRecorder) TrackRequest(platform.Tag) {}
func (nopRecorder) TrackDownload(platform.Tag, bool) {}

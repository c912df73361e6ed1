package handler

import (
	"context"
	"strings"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

const welcomeText = `🎬 Welcome to the video downloader bot 🎬

Features:
✅ Download from YouTube
✅ Download from Instagram (Reels/Posts)
✅ Download from TikTok
✅ Download from Facebook/Reels
✅ Pick from the available qualities

How to use:
1. Send a video link
2. Pick a quality
3. Wait for the download

Commands:
/start, /help - this message
/supported - supported platforms

🚀 Send a link to get started!`

type BasicHandler struct {
	msgr Messenger
}

func NewBasicHandler(m Messenger) *BasicHandler {
	return &BasicHandler{msgr: m}
}

func (h *BasicHandler) HandleStart(ctx context.Context, msg Message) error {
	_, err := h.msgr.Send(ctx, msg.Chat, 0, welcomeText, nil)
	return err
}

func (h *BasicHandler) HandleHelp(ctx context.Context, msg Message) error {
	return h.HandleStart(ctx, msg)
}

func (h *BasicHandler) HandleSupported(ctx context.Context, msg Message) error {
	_, err := h.msgr.Send(ctx, msg.Chat, 0, SupportedText(), nil)
	return err
}

func SupportedText() string {
	var b strings.Builder
	b.WriteString("📱 Supported platforms:\n\n")
	for _, tag := range platform.All() {
		b.WriteString("✅ " + tag.Name() + "\n")
	}
	b.WriteString("\n🚫 Not supported:\n❌ Netflix\n❌ Disney+\n❌ DRM-protected platforms")
	return b.String()
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pavelc4/clipgrab-bot/internal/download"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/internal/provider"
	"github.com/pavelc4/clipgrab-bot/internal/token"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
	"github.com/pavelc4/clipgrab-bot/pkg/utils"
)

// MaxButtons is how many quality choices a prompt offers.
const MaxButtons = 5

const (
	textNoLink      = "❌ I couldn't find any link in your message.\nSend a video link from one of the supported platforms."
	textUnsupported = "❌ Unsupported platform or invalid link.\nLink: %s"
	textAnalyzing   = "⏳ Analyzing link from %s..."
	textNoInfo      = "❌ Could not load video info from %s"
	textAnalyzeErr  = "❌ Error while analyzing the link: %v"
	textDownloading = "⏳ Downloading video from %s..."
	textDownloadErr = "❌ Video download failed"
	textUploadErr   = "❌ Failed to send the video: %v"
	textBadChoice   = "❌ This choice is no longer valid, send the link again."
	textAnswer      = "⏳ Downloading..."
	textFailed      = "❌ Something went wrong: %v"
)

// DownloadHandler runs the two-phase exchange: a link yields a quality
// prompt, a button click yields the file.
type DownloadHandler struct {
	msgr     Messenger
	resolver Resolver
	dl       Downloader
	codec    *token.Codec
	stats    Recorder
}

func NewDownloadHandler(m Messenger, r Resolver, d Downloader, c *token.Codec, rec Recorder) *DownloadHandler {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &DownloadHandler{
		msgr:     m,
		resolver: r,
		dl:       d,
		codec:    c,
		stats:    rec,
	}
}

// HandleText looks for links in msg and answers each one with a prompt.
// Links are handled one after another in the order they appear.
func (h *DownloadHandler) HandleText(ctx context.Context, msg Message) error {
	urls := platform.ExtractURLs(msg.Text)
	if len(urls) == 0 {
		_, err := h.msgr.Send(ctx, msg.Chat, msg.ID, textNoLink, nil)
		return err
	}

	for _, url := range urls {
		tag := platform.Detect(url)
		if tag == platform.None {
			if _, err := h.msgr.Send(ctx, msg.Chat, msg.ID, fmt.Sprintf(textUnsupported, url), nil); err != nil {
				logger.Error("Failed to send unsupported notice", "url", url, "error", err)
			}
			continue
		}
		h.inquire(ctx, msg, url, tag)
	}
	return nil
}

func (h *DownloadHandler) inquire(ctx context.Context, msg Message, url string, tag platform.Tag) {
	h.stats.TrackRequest(tag)

	waitID, err := h.msgr.Send(ctx, msg.Chat, msg.ID, fmt.Sprintf(textAnalyzing, tag.Name()), nil)
	if err != nil {
		logger.Error("Failed to send waiting notice", "url", url, "error", err)
		return
	}
	defer h.recoverTo(ctx, msg.Chat, waitID)

	meta, err := h.resolver.Resolve(ctx, url, tag)
	if err != nil {
		logger.Error("Resolve failed", "url", url, "platform", tag, "error", err)
		if errors.Is(err, provider.ErrNoMetadata) {
			h.edit(ctx, msg.Chat, waitID, fmt.Sprintf(textNoInfo, tag.Name()), nil)
		} else {
			h.edit(ctx, msg.Chat, waitID, fmt.Sprintf(textAnalyzeErr, err), nil)
		}
		return
	}

	buttons, err := h.buttons(meta, url, tag)
	if err != nil {
		logger.Error("Failed to encode choices", "url", url, "error", err)
		h.edit(ctx, msg.Chat, waitID, fmt.Sprintf(textAnalyzeErr, err), nil)
		return
	}
	h.edit(ctx, msg.Chat, waitID, Prompt(meta), buttons)
}

// buttons encodes the first MaxButtons qualities. The token carries the url
// as the user sent it.
func (h *DownloadHandler) buttons(meta *provider.Metadata, url string, tag platform.Tag) ([]Button, error) {
	qualities := meta.Qualities
	if len(qualities) == 0 {
		qualities = []string{provider.DefaultQuality}
	}
	if len(qualities) > MaxButtons {
		qualities = qualities[:MaxButtons]
	}

	out := make([]Button, 0, len(qualities))
	for _, q := range qualities {
		data, err := h.codec.Encode(token.Selection{Platform: tag, Quality: q, URL: url})
		if err != nil {
			return nil, err
		}
		out = append(out, Button{Label: "⬇️ " + q, Data: data})
	}
	return out, nil
}

// HandleCallback downloads the choice behind a prompt button and delivers it.
func (h *DownloadHandler) HandleCallback(ctx context.Context, cb Callback) error {
	sel, err := h.codec.Decode(cb.Data)
	if err != nil {
		logger.Warn("Rejected selection", "data", cb.Data, "error", err)
		return h.msgr.Answer(ctx, cb.QueryID, textBadChoice)
	}

	if err := h.msgr.Answer(ctx, cb.QueryID, textAnswer); err != nil {
		logger.Warn("Failed to answer callback", "query", cb.QueryID, "error", err)
	}

	noticeID, err := h.msgr.Send(ctx, cb.Chat, 0, fmt.Sprintf(textDownloading, sel.Platform.Name()), nil)
	if err != nil {
		return fmt.Errorf("send download notice failed: %w", err)
	}
	defer h.recoverTo(ctx, cb.Chat, noticeID)

	path, err := h.dl.Download(ctx, sel.URL, sel.Platform, sel.Quality)
	if err != nil || path == "" {
		h.stats.TrackDownload(sel.Platform, false)
		h.edit(ctx, cb.Chat, noticeID, textDownloadErr, nil)
		return nil
	}
	defer download.Remove(path)

	video := Video{
		Path:    path,
		Name:    utils.SanitizeFilename(sel.Platform.Name()+" "+sel.Quality) + ".mp4",
		Caption: Caption(sel),
	}
	if err := h.msgr.SendVideo(ctx, cb.Chat, cb.MessageID, video); err != nil {
		logger.Error("Failed to deliver video", "url", sel.URL, "error", err)
		h.stats.TrackDownload(sel.Platform, false)
		h.edit(ctx, cb.Chat, noticeID, fmt.Sprintf(textUploadErr, err), nil)
		return nil
	}

	h.stats.TrackDownload(sel.Platform, true)
	if err := h.msgr.Delete(ctx, cb.Chat, noticeID); err != nil {
		logger.Warn("Failed to delete download notice", "msg_id", noticeID, "error", err)
	}
	return nil
}

func (h *DownloadHandler) edit(ctx context.Context, chat Chat, msgID int, text string, buttons []Button) {
	if err := h.msgr.Edit(ctx, chat, msgID, text, buttons); err != nil {
		logger.Error("Failed to edit message", "msg_id", msgID, "error", err)
	}
}

// recoverTo turns a panic in a phase into an error notice on msgID.
func (h *DownloadHandler) recoverTo(ctx context.Context, chat Chat, msgID int) {
	if r := recover(); r != nil {
		logger.Error("Panic while handling link", "error", r)
		h.edit(ctx, chat, msgID, fmt.Sprintf(textFailed, r), nil)
	}
}

// Prompt renders the metadata shown above the quality buttons.
func Prompt(meta *provider.Metadata) string {
	var b strings.Builder
	b.WriteString("📹 Video info:\n")
	fmt.Fprintf(&b, "📌 Source: %s\n", meta.Platform.Name())
	fmt.Fprintf(&b, "🏷️ Title: %s\n", orUnknown(meta.Title))
	fmt.Fprintf(&b, "⏱️ Duration: %s\n", orUnknown(meta.Duration))
	fmt.Fprintf(&b, "👁️ Views: %s\n", meta.Views)
	fmt.Fprintf(&b, "👍 Likes: %s\n", meta.Likes)
	b.WriteString("\n⬇️ Choose a download quality:")
	return b.String()
}

func Caption(sel token.Selection) string {
	return fmt.Sprintf("✅ Downloaded successfully!\n📌 Source: %s\n⚡ Quality: %s", sel.Platform.Name(), sel.Quality)
}

func orUnknown(s string) string {
	if s == "" {
		return provider.Unknown
	}
	return s
}

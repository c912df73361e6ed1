package provider

import (
	"context"

	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// basicProvider serves platforms whose renditions the backend does not
// enumerate. Backend failures degrade to a placeholder record.
type basicProvider struct {
	tag          platform.Tag
	ext          backend.Extractor
	defaultTitle string
	flat         bool
	cookies      string
}

func (bp *basicProvider) Platform() platform.Tag {
	return bp.tag
}

func (bp *basicProvider) Resolve(ctx context.Context, url string) (*Metadata, error) {
	info, err := bp.ext.Extract(ctx, backend.Request{
		URL:      url,
		Platform: bp.tag,
		Flat:     bp.flat,
		Cookies:  bp.cookies,
	})
	if err != nil {
		logger.Warn("Metadata lookup failed, using placeholder", "platform", bp.tag, "url", url, "error", err)
		return placeholder(bp.tag, url, bp.defaultTitle), nil
	}

	title := info.Title
	if title == "" {
		title = bp.defaultTitle
	}
	return &Metadata{
		Platform:  bp.tag,
		Title:     title,
		Duration:  FormatDuration(info.Duration),
		Views:     CountOf(info.ViewCount),
		Likes:     CountOf(info.LikeCount),
		Thumbnail: info.Thumbnail,
		Qualities: []string{DefaultQuality},
		URL:       url,
	}, nil
}

// Selector ignores the quality: these platforms only offer "best".
func (bp *basicProvider) Selector(string) backend.Selector {
	return backend.Selector{Format: "best"}
}

func NewTikTok(ext backend.Extractor) Strategy {
	return &basicProvider{
		tag:          platform.TikTok,
		ext:          ext,
		defaultTitle: "TikTok Video",
		flat:         true,
	}
}

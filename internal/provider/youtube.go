package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

type YouTubeProvider struct {
	ext backend.Extractor
}

func NewYouTube(ext backend.Extractor) *YouTubeProvider {
	return &YouTubeProvider{ext: ext}
}

func (yp *YouTubeProvider) Platform() platform.Tag {
	return platform.YouTube
}

// Resolve lists the mp4 video renditions. Unlike the other strategies a
// backend failure is returned to the caller.
func (yp *YouTubeProvider) Resolve(ctx context.Context, url string) (*Metadata, error) {
	info, err := yp.ext.Extract(ctx, backend.Request{URL: url, Platform: platform.YouTube})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMetadata, err)
	}

	title := info.Title
	if title == "" {
		title = Unknown
	}

	qualities := qualityLabels(info.Formats)
	logger.Info("YouTube info resolved", "title", title, "qualities", len(qualities), "dur", info.Duration)

	return &Metadata{
		Platform:  platform.YouTube,
		Title:     title,
		Duration:  FormatDuration(info.Duration),
		Views:     CountOf(info.ViewCount),
		Likes:     CountOf(info.LikeCount),
		Thumbnail: info.Thumbnail,
		Qualities: qualities,
		URL:       url,
	}, nil
}

func (yp *YouTubeProvider) Selector(quality string) backend.Selector {
	if h := leadingNumber(quality); h > 0 {
		return backend.Selector{
			Format:    fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", h, h),
			MaxHeight: h,
		}
	}
	return backend.Selector{Format: "best[ext=mp4]/best"}
}

// qualityLabels keeps mp4 video formats, prefers the format note over the
// raw height, dedupes and sorts best first.
func qualityLabels(formats []backend.Format) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, f := range formats {
		if !f.HasVideo() || f.Ext != "mp4" {
			continue
		}
		label := f.FormatNote
		if label == "" && f.Height > 0 {
			label = strconv.Itoa(f.Height) + "p"
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	sort.SliceStable(labels, func(i, j int) bool {
		a, b := leadingNumber(labels[i]), leadingNumber(labels[j])
		if a != b {
			return a > b
		}
		return labels[i] > labels[j]
	})

	if len(labels) > maxQualities {
		labels = labels[:maxQualities]
	}
	if len(labels) == 0 {
		return []string{DefaultQuality}
	}
	return labels
}

// leadingNumber parses "1080p60" as 1080. Labels without leading digits give 0.
func leadingNumber(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

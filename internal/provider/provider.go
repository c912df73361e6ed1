package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

const (
	Unknown        = "Unknown"
	DefaultQuality = "default"
	maxQualities   = 10
)

var ErrNoMetadata = errors.New("no metadata")

// Count is a view or like counter that may be missing.
type Count struct {
	Value int64
	Known bool
}

func CountOf(v *int64) Count {
	if v == nil {
		return Count{}
	}
	return Count{Value: *v, Known: true}
}

func (c Count) String() string {
	if !c.Known {
		return Unknown
	}
	return strconv.FormatInt(c.Value, 10)
}

// Metadata is the normalized description of one video.
type Metadata struct {
	Platform  platform.Tag
	Title     string
	Duration  string
	Views     Count
	Likes     Count
	Thumbnail string
	Qualities []string // best first, never empty
	URL       string
}

type Strategy interface {
	Platform() platform.Tag
	Resolve(ctx context.Context, url string) (*Metadata, error)
	// Selector maps a quality label from Metadata.Qualities to a backend request.
	Selector(quality string) backend.Selector
}

func placeholder(tag platform.Tag, url, title string) *Metadata {
	return &Metadata{
		Platform:  tag,
		Title:     title,
		Duration:  Unknown,
		Qualities: []string{DefaultQuality},
		URL:       url,
	}
}

// FormatDuration renders seconds as H:MM:SS or M:SS.
func FormatDuration(seconds float64) string {
	total := int64(seconds)
	if total <= 0 {
		return Unknown
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

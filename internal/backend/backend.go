// Package backend wraps the external extraction tools that turn a page URL
// into metadata or a downloaded media file.
package backend

import (
	"context"
	"errors"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

var ErrUnsupported = errors.New("backend does not handle this platform")

// Selector describes which rendition to fetch. Format is a yt-dlp format
// expression; MaxHeight is the same constraint in structured form for
// backends that cannot parse format expressions. Both empty means the
// backend default.
type Selector struct {
	Format    string
	MaxHeight int
}

type Request struct {
	URL      string
	Platform platform.Tag
	Selector Selector
	// Output is a yt-dlp output template, e.g. /tmp/clipgrab-<id>.%(ext)s
	Output  string
	Flat    bool
	Cookies string
}

type Format struct {
	ID         string
	Ext        string
	VCodec     string
	ACodec     string
	FormatNote string
	Height     int
}

// HasVideo reports whether the format carries a video stream.
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

type Info struct {
	ID        string
	Title     string
	Duration  float64
	ViewCount *int64
	LikeCount *int64
	Thumbnail string
	Ext       string
	Formats   []Format
}

type Extractor interface {
	Extract(ctx context.Context, req Request) (*Info, error)
	// Download materializes the media and returns the local file path.
	Download(ctx context.Context, req Request) (string, error)
}

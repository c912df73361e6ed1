package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/pkg/buffer"
)

// videoClient is the subset of youtube.Client used here.
type videoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// NativeYouTube talks to YouTube directly instead of spawning yt-dlp. It only
// offers and downloads progressive (muxed) streams.
type NativeYouTube struct {
	client videoClient
}

// NewNativeYouTube uses httpClient for every request. nil means
// http.DefaultClient.
func NewNativeYouTube(httpClient *http.Client) *NativeYouTube {
	return &NativeYouTube{client: &youtube.Client{HTTPClient: httpClient}}
}

func (n *NativeYouTube) Extract(ctx context.Context, req Request) (*Info, error) {
	if req.Platform != platform.YouTube {
		return nil, ErrUnsupported
	}

	video, err := n.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("youtube lookup failed: %w", err)
	}

	views := int64(video.Views)
	info := &Info{
		ID:        video.ID,
		Title:     video.Title,
		Duration:  video.Duration.Seconds(),
		ViewCount: &views,
		Ext:       "mp4",
		Formats:   make([]Format, 0, len(video.Formats)),
	}
	if len(video.Thumbnails) > 0 {
		info.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}

	// Download only fetches muxed streams, so video-only adaptive formats
	// are not offered.
	for i := range video.Formats {
		f := &video.Formats[i]
		ext, vcodec, acodec := splitMime(f.MimeType)
		if vcodec != "none" && !progressive(f) {
			continue
		}
		if f.AudioChannels == 0 {
			acodec = "none"
		}
		info.Formats = append(info.Formats, Format{
			ID:         strconv.Itoa(f.ItagNo),
			Ext:        ext,
			VCodec:     vcodec,
			ACodec:     acodec,
			FormatNote: f.QualityLabel,
			Height:     f.Height,
		})
	}
	return info, nil
}

func (n *NativeYouTube) Download(ctx context.Context, req Request) (string, error) {
	if req.Platform != platform.YouTube {
		return "", ErrUnsupported
	}
	if req.Output == "" {
		return "", fmt.Errorf("output template is required")
	}

	video, err := n.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return "", fmt.Errorf("youtube lookup failed: %w", err)
	}

	format, err := pickProgressive(video.Formats, req.Selector.MaxHeight)
	if err != nil {
		return "", err
	}

	stream, _, err := n.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("open stream failed: %w", err)
	}
	defer stream.Close()

	ext, _, _ := splitMime(format.MimeType)
	path := strings.ReplaceAll(req.Output, "%(ext)s", ext)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file failed: %w", err)
	}
	if _, err := buffer.Copy(ctx, file, stream); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file failed: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close file failed: %w", err)
	}
	return path, nil
}

// pickProgressive returns the tallest muxed mp4 stream not above maxHeight.
// maxHeight <= 0 means no limit.
func pickProgressive(formats youtube.FormatList, maxHeight int) (*youtube.Format, error) {
	candidates := make([]*youtube.Format, 0, len(formats))
	for i := range formats {
		f := &formats[i]
		if !progressive(f) {
			continue
		}
		if maxHeight > 0 && f.Height > maxHeight {
			continue
		}
		candidates = append(candidates, f)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no progressive mp4 stream at or below %dp", maxHeight)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Height > candidates[j].Height
	})
	return candidates[0], nil
}

// progressive reports whether f carries both video and audio in mp4.
func progressive(f *youtube.Format) bool {
	ext, vcodec, _ := splitMime(f.MimeType)
	return f.AudioChannels > 0 && vcodec != "none" && ext == "mp4"
}

// splitMime turns `video/mp4; codecs="avc1.4d401e, mp4a.40.2"` into
// ("mp4", "avc1.4d401e", "mp4a.40.2").
func splitMime(mime string) (ext, vcodec, acodec string) {
	kind, params, _ := strings.Cut(mime, ";")
	major, sub, _ := strings.Cut(strings.TrimSpace(kind), "/")
	ext = sub

	var codecs []string
	if _, list, ok := strings.Cut(params, "codecs="); ok {
		for _, c := range strings.Split(strings.Trim(strings.TrimSpace(list), `"`), ",") {
			if c = strings.TrimSpace(c); c != "" {
				codecs = append(codecs, c)
			}
		}
	}

	vcodec, acodec = "none", "none"
	switch major {
	case "video":
		if len(codecs) > 0 {
			vcodec = codecs[0]
		}
		if len(codecs) > 1 {
			acodec = codecs[1]
		}
	case "audio":
		if len(codecs) > 0 {
			acodec = codecs[0]
		}
	}
	return ext, vcodec, acodec
}

package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

const (
	filePrefix = "clipgrab-"
	videoExt   = ".mp4"
)

var ErrNoFile = errors.New("downloaded file not found")

// SelectorSource picks the backend selector for a platform and quality.
type SelectorSource interface {
	Selector(tag platform.Tag, quality string) backend.Selector
}

type Downloader struct {
	ext       backend.Extractor
	selectors SelectorSource
	dir       string
	cookies   string
	timeout   time.Duration
}

type Options struct {
	Dir     string
	Cookies string
	Timeout time.Duration
}

func NewDownloader(ext backend.Extractor, selectors SelectorSource, opts Options) *Downloader {
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return &Downloader{
		ext:       ext,
		selectors: selectors,
		dir:       dir,
		cookies:   opts.Cookies,
		timeout:   opts.Timeout,
	}
}

// Download fetches url into the temp directory and returns the file path.
// The caller owns the file and must Remove it. On failure the path is empty.
func (d *Downloader) Download(ctx context.Context, url string, tag platform.Tag, quality string) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir failed: %w", err)
	}

	id := uuid.NewString()
	req := backend.Request{
		URL:      url,
		Platform: tag,
		Selector: d.selectors.Selector(tag, quality),
		Output:   filepath.Join(d.dir, filePrefix+id+".%(ext)s"),
	}
	if tag == platform.Instagram {
		req.Cookies = d.cookies
	}

	start := time.Now()
	path, err := d.ext.Download(ctx, req)
	if err != nil {
		logger.ErrorWithDuration("Download failed", start, "url", url, "platform", tag, "quality", quality, "error", err)
		d.purge(id)
		return "", err
	}

	path, err = normalizeExt(path)
	if err != nil {
		logger.Error("Download produced no usable file", "url", url, "path", path, "error", err)
		d.purge(id)
		return "", err
	}

	logger.InfoWithDuration("Download finished", start, "platform", tag, "quality", quality, "file", filepath.Base(path))
	return path, nil
}

// normalizeExt renames the file to .mp4 when the backend picked another
// container. Only the name changes.
func normalizeExt(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoFile, err)
	}
	if strings.EqualFold(filepath.Ext(path), videoExt) {
		return path, nil
	}

	renamed := strings.TrimSuffix(path, filepath.Ext(path)) + videoExt
	if err := os.Rename(path, renamed); err != nil {
		return "", fmt.Errorf("rename to mp4 failed: %w", err)
	}
	return renamed, nil
}

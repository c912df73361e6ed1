package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w (stderr: %s)", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

type YtDlp struct {
	binary    string
	run       Runner
	fragments func(ctx context.Context) int
}

func NewYtDlp(binary string) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlp{binary: binary, run: execRunner}
}

// WithFragments sets how many fragments of a segmented stream are fetched in
// parallel, asked once per download.
func (y *YtDlp) WithFragments(f func(ctx context.Context) int) *YtDlp {
	y.fragments = f
	return y
}

// WithRunner swaps the process runner, used by tests.
func (y *YtDlp) WithRunner(r Runner) *YtDlp {
	y.run = r
	return y
}

type ytdlpMeta struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Ext       string        `json:"ext"`
	Duration  float64       `json:"duration"`
	ViewCount *int64        `json:"view_count"`
	LikeCount *int64        `json:"like_count"`
	Thumbnail string        `json:"thumbnail"`
	Formats   []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	ID         string `json:"format_id"`
	Ext        string `json:"ext"`
	ACodec     string `json:"acodec"`
	VCodec     string `json:"vcodec"`
	FormatNote string `json:"format_note"`
	Height     int    `json:"height"`
}

func (y *YtDlp) Extract(ctx context.Context, req Request) (*Info, error) {
	args := []string{
		"--dump-single-json",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
	}
	if req.Flat {
		args = append(args, "--flat-playlist")
	}
	args = append(args, cookieArgs(req.Cookies)...)
	args = append(args, "--", req.URL)

	out, err := y.run(ctx, y.binary, args...)
	if err != nil {
		return nil, err
	}

	var meta ytdlpMeta
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("decode json failed: %w", err)
	}

	info := &Info{
		ID:        meta.ID,
		Title:     meta.Title,
		Duration:  meta.Duration,
		ViewCount: meta.ViewCount,
		LikeCount: meta.LikeCount,
		Thumbnail: meta.Thumbnail,
		Ext:       meta.Ext,
		Formats:   make([]Format, 0, len(meta.Formats)),
	}
	for _, f := range meta.Formats {
		info.Formats = append(info.Formats, Format{
			ID:         f.ID,
			Ext:        f.Ext,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
			FormatNote: f.FormatNote,
			Height:     f.Height,
		})
	}
	return info, nil
}

func (y *YtDlp) Download(ctx context.Context, req Request) (string, error) {
	if req.Output == "" {
		return "", fmt.Errorf("output template is required")
	}

	args := []string{}
	if req.Selector.Format != "" {
		args = append(args, "-f", req.Selector.Format)
	}
	args = append(args,
		"-o", req.Output,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--no-simulate",
		"--print", "after_move:filepath",
	)
	if y.fragments != nil {
		if n := y.fragments(ctx); n > 1 {
			args = append(args, "--concurrent-fragments", strconv.Itoa(n))
		}
	}
	args = append(args, cookieArgs(req.Cookies)...)
	args = append(args, "--", req.URL)

	out, err := y.run(ctx, y.binary, args...)
	if err != nil {
		return "", err
	}

	path := lastLine(out)
	if path == "" {
		return "", fmt.Errorf("yt-dlp did not report an output file")
	}
	return path, nil
}

func cookieArgs(path string) []string {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		logger.Debug("Cookies file not found", "path", path)
		return nil
	}
	return []string{"--cookies", path}
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

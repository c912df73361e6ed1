package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

// Remove deletes a downloaded file. Failures are logged and otherwise ignored.
func Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove temp file", "path", path, "error", err)
	}
}

// Sweep removes files left behind by earlier runs, including partial
// downloads. It returns how many were removed.
func (d *Downloader) Sweep(ctx context.Context) int {
	matches, err := filepath.Glob(filepath.Join(d.dir, filePrefix+"*"))
	if err != nil {
		logger.Warn("Temp sweep pattern failed", "dir", d.dir, "error", err)
		return 0
	}

	cleaned := 0
	for _, path := range matches {
		select {
		case <-ctx.Done():
			logger.Warn("Temp sweep cancelled", "cleaned", cleaned)
			return cleaned
		default:
		}

		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to remove leftover", "path", path, "error", err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		logger.Info("Temp sweep completed", "dir", d.dir, "cleaned", cleaned)
	}
	return cleaned
}

// purge removes everything one failed download left behind: yt-dlp .part
// fragments, per-format files and an un-renamed result.
func (d *Downloader) purge(id string) {
	matches, err := filepath.Glob(filepath.Join(d.dir, filePrefix+id+"*"))
	if err != nil {
		logger.Warn("Purge pattern failed", "id", id, "error", err)
		return
	}
	for _, path := range matches {
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to remove partial download", "path", path, "error", err)
		}
	}
}

package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pavelc4/clipgrab-bot/internal/stats"
	"github.com/pavelc4/clipgrab-bot/pkg/utils"
)

type StatsSource interface {
	Snapshot() stats.Snapshot
}

type AdminHandler struct {
	msgr    Messenger
	stats   StatsSource
	ownerID int64
	tempDir string
}

// NewAdminHandler restricts /stats to ownerID. Zero lets anyone ask.
func NewAdminHandler(m Messenger, src StatsSource, ownerID int64, tempDir string) *AdminHandler {
	return &AdminHandler{
		msgr:    m,
		stats:   src,
		ownerID: ownerID,
		tempDir: tempDir,
	}
}

func (h *AdminHandler) HandleStats(ctx context.Context, msg Message) error {
	if h.ownerID != 0 && msg.SenderID != h.ownerID {
		return nil
	}

	snap := h.stats.Snapshot()
	sys := stats.GetSystemInfo(h.tempDir, time.Second)
	_, err := h.msgr.Send(ctx, msg.Chat, msg.ID, StatsText(snap, sys), nil)
	return err
}

func StatsText(snap stats.Snapshot, sys stats.SystemInfo) string {
	var b strings.Builder
	b.WriteString("📊 Bot status\n\n")
	fmt.Fprintf(&b, "├ Uptime : %s\n", utils.FormatUptime(snap.Uptime))
	fmt.Fprintf(&b, "├ Links : %d\n", snap.Requests)
	fmt.Fprintf(&b, "├ Downloads : %d ok / %d failed\n", snap.Succeeded, snap.Failed)
	if snap.LastDownload.IsZero() {
		b.WriteString("└ Last download : never\n")
	} else {
		fmt.Fprintf(&b, "└ Last download : %s\n", snap.LastDownload.Format(time.RFC3339))
	}

	if ranked := snap.Ranked(); len(ranked) > 0 {
		b.WriteString("\nPlatforms\n")
		for _, tag := range ranked {
			p := snap.Platforms[tag]
			fmt.Fprintf(&b, "• %s : %d links, %d ok, %d failed\n", tag.Name(), p.Requests, p.Succeeded, p.Failed)
		}
	}

	b.WriteString("\nSystem\n")
	fmt.Fprintf(&b, "├ Host : %s (%s)\n", sys.Hostname, sys.OS)
	fmt.Fprintf(&b, "├ CPU : %d cores, %.1f%%\n", sys.CPUCores, sys.CPUUsage)
	fmt.Fprintf(&b, "├ Memory : %s / %s (%.1f%%)\n", utils.FormatFileSize(sys.MemUsed), utils.FormatFileSize(sys.MemTotal), sys.MemPercent)
	fmt.Fprintf(&b, "├ Temp free : %s\n", utils.FormatFileSize(sys.TempFree))
	fmt.Fprintf(&b, "├ Process : pid %d, %.1f%% CPU, %s RSS\n", sys.ProcessPID, sys.ProcessCPU, utils.FormatFileSize(sys.ProcessMem))
	fmt.Fprintf(&b, "└ Go : %s, %d goroutines, heap %s", sys.GoVersion, sys.Goroutines, utils.FormatFileSize(sys.HeapAlloc))
	return b.String()
}

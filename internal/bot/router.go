package bot

import (
	"context"
	"strings"

	"github.com/pavelc4/clipgrab-bot/internal/handler"
	"github.com/pavelc4/clipgrab-bot/internal/middleware"
	"github.com/pavelc4/clipgrab-bot/internal/token"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
	"github.com/pavelc4/clipgrab-bot/pkg/worker"
)

// Router hands updates from any transport to the handlers. Each update runs
// on the worker pool under Recover and Logger.
type Router struct {
	download *handler.DownloadHandler
	admin    *handler.AdminHandler
	basic    *handler.BasicHandler
	pool     *worker.Pool
}

func NewRouter(dl *handler.DownloadHandler, adm *handler.AdminHandler, basic *handler.BasicHandler, pool *worker.Pool) *Router {
	return &Router{
		download: dl,
		admin:    adm,
		basic:    basic,
		pool:     pool,
	}
}

// OnMessage queues msg. It blocks only while the pool is saturated.
func (r *Router) OnMessage(ctx context.Context, msg handler.Message) {
	r.submit(ctx, "message", func(ctx context.Context) error {
		return r.HandleMessage(ctx, msg)
	})
}

func (r *Router) OnCallback(ctx context.Context, cb handler.Callback) {
	r.submit(ctx, "callback", func(ctx context.Context) error {
		return r.HandleCallback(ctx, cb)
	})
}

func (r *Router) submit(ctx context.Context, name string, h middleware.Handler) {
	job := middleware.Chain(h, middleware.Recover, middleware.Logger(name))
	if !r.pool.Submit(ctx, worker.Job(job)) {
		logger.Warn("Update dropped", "kind", name, "error", ctx.Err())
	}
}

func (r *Router) HandleMessage(ctx context.Context, msg handler.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	logger.Debug("HandleMessage called", "chat", msg.Chat.ID, "id", msg.ID, "text", text)

	switch command(text) {
	case "/start":
		return r.basic.HandleStart(ctx, msg)
	case "/help":
		return r.basic.HandleHelp(ctx, msg)
	case "/supported":
		return r.basic.HandleSupported(ctx, msg)
	case "/stats":
		return r.admin.HandleStats(ctx, msg)
	}

	// anything else, unknown commands included, is searched for links
	return r.download.HandleText(ctx, msg)
}

func (r *Router) HandleCallback(ctx context.Context, cb handler.Callback) error {
	if !token.IsToken(cb.Data) {
		logger.Debug("Ignoring foreign callback", "data", cb.Data)
		return nil
	}
	return r.download.HandleCallback(ctx, cb)
}

// command returns the leading /command of text with any @botname removed,
// or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if idx := strings.Index(cmd, "@"); idx != -1 {
		cmd = cmd[:idx]
	}
	return strings.ToLower(cmd)
}

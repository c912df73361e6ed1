package bot

import (
	"context"

	"github.com/pavelc4/clipgrab-bot/pkg/worker"
)

// Transport receives updates and feeds them to a Router until ctx ends.
type Transport interface {
	Run(ctx context.Context) error
}

type Bot struct {
	transport Transport
	pool      *worker.Pool
}

func New(transport Transport, pool *worker.Pool) *Bot {
	return &Bot{
		transport: transport,
		pool:      pool,
	}
}

// Run blocks until the transport stops, then lets in-flight updates finish.
func (b *Bot) Run(ctx context.Context) error {
	defer b.pool.Stop()
	return b.transport.Run(ctx)
}

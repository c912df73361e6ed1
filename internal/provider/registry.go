package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

// Registry dispatches to the strategy registered for a platform and falls
// back to Generic for anything else.
type Registry struct {
	mu         sync.RWMutex
	strategies map[platform.Tag]Strategy
	fallback   Strategy
	timeout    time.Duration
}

func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[platform.Tag]Strategy),
		fallback:   Generic{},
	}
}

// NewDefaultRegistry registers the YouTube, Instagram and TikTok strategies.
func NewDefaultRegistry(ext backend.Extractor, cookies string) *Registry {
	r := NewRegistry()
	r.Register(NewYouTube(ext))
	r.Register(NewInstagram(ext, cookies))
	r.Register(NewTikTok(ext))
	return r
}

// WithTimeout bounds every Resolve call. Zero means no bound.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	r.timeout = d
	return r
}

func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Platform()] = s
}

func (r *Registry) strategy(tag platform.Tag) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.strategies[tag]; ok {
		return s
	}
	return r.fallback
}

func (r *Registry) Resolve(ctx context.Context, url string, tag platform.Tag) (*Metadata, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	meta, err := r.strategy(tag).Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("%s: %w", tag.Name(), ErrNoMetadata)
	}
	// generic answers carry no platform of their own
	meta.Platform = tag
	return meta, nil
}

func (r *Registry) Selector(tag platform.Tag, quality string) backend.Selector {
	return r.strategy(tag).Selector(quality)
}

// Generic is used for platforms without a dedicated strategy. It never calls
// the backend.
type Generic struct{}

func (Generic) Platform() platform.Tag { return platform.None }

func (Generic) Resolve(ctx context.Context, url string) (*Metadata, error) {
	return placeholder(platform.None, url, "Video Download"), nil
}

func (Generic) Selector(string) backend.Selector { return backend.Selector{} }

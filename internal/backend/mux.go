package backend

import (
	"context"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

// Mux sends requests to a per-platform extractor, falling back to a default one.
type Mux struct {
	fallback Extractor
	routes   map[platform.Tag]Extractor
}

func NewMux(fallback Extractor) *Mux {
	return &Mux{
		fallback: fallback,
		routes:   make(map[platform.Tag]Extractor),
	}
}

func (m *Mux) Handle(tag platform.Tag, e Extractor) *Mux {
	m.routes[tag] = e
	return m
}

func (m *Mux) pick(tag platform.Tag) Extractor {
	if e, ok := m.routes[tag]; ok {
		return e
	}
	return m.fallback
}

func (m *Mux) Extract(ctx context.Context, req Request) (*Info, error) {
	return m.pick(req.Platform).Extract(ctx, req)
}

func (m *Mux) Download(ctx context.Context, req Request) (string, error) {
	return m.pick(req.Platform).Download(ctx, req)
}

// Package cpu scales download parallelism to the current CPU load.
package cpu

import (
	"context"
	"time"

	gocpu "github.com/shirou/gopsutil/v3/cpu"

	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

const (
	DefaultMin = 2
	DefaultMax = 8

	sampleWindow = 500 * time.Millisecond
	fallback     = 4
)

// Sampler reports overall CPU usage in percent.
type Sampler func(ctx context.Context) (float64, error)

func gopsutilSampler(ctx context.Context) (float64, error) {
	p, err := gocpu.PercentWithContext(ctx, sampleWindow, false)
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, context.DeadlineExceeded
	}
	return p[0], nil
}

// Tuner picks how many fragments yt-dlp may fetch at once.
type Tuner struct {
	lo, hi int
	sample Sampler
}

func NewTuner(lo, hi int) *Tuner {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return &Tuner{lo: lo, hi: hi, sample: gopsutilSampler}
}

// WithSampler swaps the CPU probe, used by tests.
func (t *Tuner) WithSampler(s Sampler) *Tuner {
	t.sample = s
	return t
}

// Fragments samples the CPU and maps the load onto [lo, hi]. A failed
// sample yields a middle value.
func (t *Tuner) Fragments(ctx context.Context) int {
	load, err := t.sample(ctx)
	if err != nil {
		logger.Debug("CPU sample failed", "error", err)
		return t.clamp(fallback)
	}

	n := t.forLoad(load)
	logger.Debug("Adaptive fragments", "cpu", load, "fragments", n)
	return n
}

// forLoad steps down linearly from hi at idle to lo at 85% and above.
func (t *Tuner) forLoad(load float64) int {
	const busy = 85.0
	switch {
	case load >= busy:
		return t.lo
	case load <= 0:
		return t.hi
	}
	span := float64(t.hi - t.lo)
	return t.hi - int(span*load/busy+0.5)
}

func (t *Tuner) clamp(n int) int {
	if n < t.lo {
		return t.lo
	}
	if n > t.hi {
		return t.hi
	}
	return n
}

package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
)

// Tracker counts link requests and download outcomes per platform. Counters
// live in memory only and reset on restart.
type Tracker struct {
	mu        sync.RWMutex
	startTime time.Time
	platforms map[platform.Tag]*PlatformStats

	lastDownload time.Time
	now          func() time.Time
}

type PlatformStats struct {
	Requests  int64 `json:"requests"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

type Snapshot struct {
	Uptime       time.Duration                  `json:"-"`
	UptimeText   string                         `json:"uptime"`
	Requests     int64                          `json:"requests"`
	Succeeded    int64                          `json:"downloads_succeeded"`
	Failed       int64                          `json:"downloads_failed"`
	LastDownload time.Time                      `json:"last_download,omitempty"`
	Platforms    map[platform.Tag]PlatformStats `json:"platforms"`
}

func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		platforms: make(map[platform.Tag]*PlatformStats),
		now:       time.Now,
	}
}

func (t *Tracker) entry(tag platform.Tag) *PlatformStats {
	s, ok := t.platforms[tag]
	if !ok {
		s = &PlatformStats{}
		t.platforms[tag] = s
	}
	return s
}

func (t *Tracker) TrackRequest(tag platform.Tag) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(tag).Requests++
}

func (t *Tracker) TrackDownload(tag platform.Tag, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.entry(tag)
	if ok {
		s.Succeeded++
		t.lastDownload = t.now()
		return
	}
	s.Failed++
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	uptime := t.now().Sub(t.startTime)
	snap := Snapshot{
		Uptime:       uptime,
		UptimeText:   uptime.Round(time.Second).String(),
		LastDownload: t.lastDownload,
		Platforms:    make(map[platform.Tag]PlatformStats, len(t.platforms)),
	}
	for tag, s := range t.platforms {
		snap.Requests += s.Requests
		snap.Succeeded += s.Succeeded
		snap.Failed += s.Failed
		snap.Platforms[tag] = *s
	}
	return snap
}

// Ranked returns platforms ordered by successful downloads, busiest first.
func (s Snapshot) Ranked() []platform.Tag {
	tags := make([]platform.Tag, 0, len(s.Platforms))
	for tag := range s.Platforms {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		a, b := s.Platforms[tags[i]], s.Platforms[tags[j]]
		if a.Succeeded != b.Succeeded {
			return a.Succeeded > b.Succeeded
		}
		return tags[i] < tags[j]
	})
	return tags
}

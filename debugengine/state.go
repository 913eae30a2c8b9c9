// Package debugengine maintains the capture engine's diagnostics state:
// configuration, per-source metrics with hot-path counters, the saved
// artifact registry, and the push-event fanout the panel subscribes to.
package debugengine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/esdrastavares/heronote/cache"
	"github.com/esdrastavares/heronote/internal/types"
)

// State is the engine-side diagnostics store. Sample counters are atomics
// so the capture hot path never takes the state lock.
type State struct {
	enabled atomic.Bool

	mu      sync.RWMutex
	cfg     types.CaptureConfig
	metrics types.AudioMetrics
	files   []types.AudioFile

	mic     counters
	speaker counters

	meta *cache.Cache

	subs fanout
}

type counters struct {
	processed atomic.Uint64
	dropped   atomic.Uint64
}

func (c *counters) reset() {
	c.processed.Store(0)
	c.dropped.Store(0)
}

// New creates engine diagnostics state seeded with cfg. metaCache may be
// nil; when present it backs artifact-metadata lookups during directory
// scans.
func New(cfg types.CaptureConfig, metaCache *cache.Cache) *State {
	s := &State{
		cfg:  cfg,
		meta: metaCache,
		metrics: types.AudioMetrics{
			LastUpdate: time.Now().UTC(),
		},
		subs: newFanout(),
	}
	s.enabled.Store(cfg.Enabled)
	return s
}

// Enabled reports whether diagnostics mode is on.
func (s *State) Enabled() bool {
	return s.enabled.Load()
}

// SetEnabled switches diagnostics mode.
func (s *State) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.cfg.Enabled = enabled
	s.mu.Unlock()
	s.enabled.Store(enabled)
}

// UpdateConfig replaces the capture preferences. The enabled flag is
// owned by SetEnabled and is preserved.
func (s *State) UpdateConfig(cfg types.CaptureConfig) {
	s.mu.Lock()
	cfg.Enabled = s.cfg.Enabled
	s.cfg = cfg
	s.mu.Unlock()
}

// Config returns a copy of the current configuration.
func (s *State) Config() types.CaptureConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Metrics returns a snapshot with the live counter values stitched in.
func (s *State) Metrics() types.AudioMetrics {
	s.mu.RLock()
	m := s.metrics
	s.mu.RUnlock()

	m.Mic.SamplesProcessed = s.mic.processed.Load()
	m.Mic.SamplesDropped = s.mic.dropped.Load()
	m.Speaker.SamplesProcessed = s.speaker.processed.Load()
	m.Speaker.SamplesDropped = s.speaker.dropped.Load()
	return m
}

// UpdateMetrics mutates the snapshot under the lock and stamps LastUpdate.
func (s *State) UpdateMetrics(fn func(*types.AudioMetrics)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.metrics)
	s.metrics.LastUpdate = time.Now().UTC()
}

// AddSamples records processed samples for a source.
func (s *State) AddSamples(src types.AudioSource, n uint64) {
	s.source(src).processed.Add(n)
}

// AddDropped records dropped samples for a source.
func (s *State) AddDropped(src types.AudioSource, n uint64) {
	s.source(src).dropped.Add(n)
}

// ResetCounters zeroes all sample counters.
func (s *State) ResetCounters() {
	s.mic.reset()
	s.speaker.reset()
}

func (s *State) source(src types.AudioSource) *counters {
	if src == types.SourceSpeaker {
		return &s.speaker
	}
	return &s.mic
}

// RegisterFile records a saved artifact and pushes a file-saved event.
func (s *State) RegisterFile(f types.AudioFile) {
	s.mu.Lock()
	s.files = append(s.files, f)
	s.mu.Unlock()
	s.subs.emitFile(f)
}

// Files returns the artifacts registered during this process lifetime.
func (s *State) Files() []types.AudioFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.AudioFile(nil), s.files...)
}

// EmitMetrics pushes the current snapshot to subscribers. It is a no-op
// while diagnostics is disabled.
func (s *State) EmitMetrics() {
	if !s.Enabled() {
		return
	}
	s.subs.emitMetrics(s.Metrics())
}

// Logf pushes a formatted log entry to subscribers. It is a no-op while
// diagnostics is disabled.
func (s *State) Logf(level types.LogLevel, format string, args ...any) {
	if !s.Enabled() {
		return
	}
	s.subs.emitLog(types.LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Infof pushes an info-level log entry.
func (s *State) Infof(format string, args ...any) {
	s.Logf(types.LevelInfo, format, args...)
}

// Warnf pushes a warn-level log entry.
func (s *State) Warnf(format string, args ...any) {
	s.Logf(types.LevelWarn, format, args...)
}

// Errorf pushes an error-level log entry.
func (s *State) Errorf(format string, args ...any) {
	s.Logf(types.LevelError, format, args...)
}

// OnMetrics subscribes to pushed metrics snapshots.
func (s *State) OnMetrics(fn func(types.AudioMetrics)) (cancel func()) {
	return s.subs.onMetrics(fn)
}

// OnLog subscribes to pushed log entries.
func (s *State) OnLog(fn func(types.LogEntry)) (cancel func()) {
	return s.subs.onLog(fn)
}

// OnFileSaved subscribes to saved-artifact notifications.
func (s *State) OnFileSaved(fn func(types.AudioFile)) (cancel func()) {
	return s.subs.onFileSaved(fn)
}

// fanout delivers push events to registered handlers. Cancel functions are
// safe to call more than once.
type fanout struct {
	mu      sync.Mutex
	nextID  int
	metrics map[int]func(types.AudioMetrics)
	logs    map[int]func(types.LogEntry)
	files   map[int]func(types.AudioFile)
}

func newFanout() fanout {
	return fanout{
		metrics: make(map[int]func(types.AudioMetrics)),
		logs:    make(map[int]func(types.LogEntry)),
		files:   make(map[int]func(types.AudioFile)),
	}
}

func (f *fanout) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fanout) onMetrics(fn func(types.AudioMetrics)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.metrics[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.metrics, id)
	}
}

func (f *fanout) onLog(fn func(types.LogEntry)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.logs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.logs, id)
	}
}

func (f *fanout) onFileSaved(fn func(types.AudioFile)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.files[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.files, id)
	}
}

func (f *fanout) emitMetrics(m types.AudioMetrics) {
	f.mu.Lock()
	fns := make([]func(types.AudioMetrics), 0, len(f.metrics))
	for _, fn := range f.metrics {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}

func (f *fanout) emitLog(e types.LogEntry) {
	f.mu.Lock()
	fns := make([]func(types.LogEntry), 0, len(f.logs))
	for _, fn := range f.logs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (f *fanout) emitFile(af types.AudioFile) {
	f.mu.Lock()
	fns := make([]func(types.AudioFile), 0, len(f.files))
	for _, fn := range f.files {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(af)
	}
}

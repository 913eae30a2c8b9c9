// Package debugpanel coordinates the capture engine's diagnostics view for
// the UI: one consistent, bounded snapshot of metrics, logs, saved
// artifacts and permission state, maintained across an enable/disable
// lifecycle that starts and stops polling and push subscriptions.
package debugpanel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/esdrastavares/heronote/internal/types"
)

// ErrUnavailable is returned when the diagnostics subsystem does not exist
// in this build of the engine. A UI driven by the panel should render
// nothing in that case.
var ErrUnavailable = errors.New("debugpanel: diagnostics not available")

// DefaultPollInterval is the metrics poll cadence while enabled.
const DefaultPollInterval = 500 * time.Millisecond

// Options configures a Panel. Engine and Feed are required.
type Options struct {
	Engine      Engine
	Feed        Feed
	Permissions Permissions

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
	// LogCapacity overrides DefaultLogCapacity when positive.
	LogCapacity int
}

// Panel is the coordinator. All mutation happens through its own handlers;
// callers outside the package are pure readers plus triggers for the
// exported operations.
type Panel struct {
	engine       Engine
	feed         Feed
	pollInterval time.Duration

	availOnce sync.Once
	available bool

	mu       sync.Mutex
	toggling bool
	enabled  bool
	gen      uint64
	session  *session
	cfg      types.CaptureConfig
	metrics  types.AudioMetrics

	logs  *LogBuffer
	files *FileRegistry
	perm  *PermissionNegotiator
}

// New creates a Panel with injected collaborators.
func New(opts Options) (*Panel, error) {
	if opts.Engine == nil {
		return nil, errors.New("debugpanel: nil engine")
	}
	if opts.Feed == nil {
		return nil, errors.New("debugpanel: nil feed")
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Panel{
		engine:       opts.Engine,
		feed:         opts.Feed,
		pollInterval: interval,
		logs:         NewLogBuffer(opts.LogCapacity),
		files:        NewFileRegistry(),
		perm:         NewPermissionNegotiator(opts.Permissions),
	}, nil
}

// Available reports whether the diagnostics subsystem exists. The probe
// runs once per process; any failure counts as unavailable.
func (p *Panel) Available() bool {
	p.availOnce.Do(func() {
		ok, err := p.engine.DebugAvailable(context.Background())
		if err != nil {
			slog.Debug("debug availability probe failed", "error", err)
			return
		}
		p.available = ok
	})
	return p.available
}

// Enabled reports whether a diagnostics session is active.
func (p *Panel) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Config returns the last hydrated engine configuration snapshot.
func (p *Panel) Config() types.CaptureConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// SetEnabled transitions the panel to the requested state. A toggle already
// in flight makes this a no-op; an equal target state performs no external
// call. Only a failing engine toggle surfaces an error, and it leaves the
// enabled flag unchanged.
func (p *Panel) SetEnabled(ctx context.Context, enabled bool) error {
	if !p.Available() {
		return ErrUnavailable
	}

	p.mu.Lock()
	if p.toggling {
		p.mu.Unlock()
		slog.Debug("debug toggle already in flight", "target", enabled)
		return nil
	}
	if p.enabled == enabled {
		p.mu.Unlock()
		return nil
	}
	p.toggling = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.toggling = false
		p.mu.Unlock()
	}()

	if enabled {
		return p.enable(ctx)
	}
	return p.disable(ctx)
}

func (p *Panel) enable(ctx context.Context) error {
	if err := p.engine.ToggleDebugMode(ctx, true); err != nil {
		return fmt.Errorf("enable debug mode: %w", err)
	}

	p.mu.Lock()
	p.gen++
	s := newSession(p.gen)
	p.session = s
	p.enabled = true
	p.mu.Unlock()

	slog.Info("debug session started", "session", s.id)

	p.subscribe(s)
	p.startPolling(s)
	p.hydrate(s)
	return nil
}

// disable tears the session down unconditionally, even when the engine
// toggle fails; teardown is safe to run against an empty session. The
// enabled flag only flips on a successful toggle.
func (p *Panel) disable(ctx context.Context) error {
	err := p.engine.ToggleDebugMode(ctx, false)

	p.mu.Lock()
	s := p.session
	p.session = nil
	p.gen++
	if err == nil {
		p.enabled = false
	}
	p.mu.Unlock()

	if s != nil {
		s.close()
		slog.Info("debug session ended", "session", s.id)
	}

	if err != nil {
		return fmt.Errorf("disable debug mode: %w", err)
	}
	return nil
}

// hydrate performs the initial batch of fetches after enabling. The three
// fetches run concurrently and independently; a failing fetch is logged and
// does not block the others.
func (p *Panel) hydrate(s *session) {
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		cfg, err := p.engine.DebugConfig(s.ctx)
		if err != nil {
			slog.Warn("hydrate debug config", "error", err)
			return
		}
		p.applyConfig(s.gen, cfg)
	}()
	go func() {
		defer wg.Done()
		m, err := p.engine.DebugMetrics(s.ctx)
		if err != nil {
			slog.Warn("hydrate debug metrics", "error", err)
			return
		}
		p.applyMetrics(s.gen, m)
	}()
	go func() {
		defer wg.Done()
		files, err := p.engine.ListDebugFiles(s.ctx)
		if err != nil {
			slog.Warn("hydrate debug files", "error", err)
			return
		}
		p.replaceFiles(s.gen, files)
	}()

	wg.Wait()
}

// live reports whether gen identifies the currently active session. Callers
// must hold p.mu.
func (p *Panel) live(gen uint64) bool {
	return p.session != nil && p.session.gen == gen
}

func (p *Panel) applyConfig(gen uint64, cfg types.CaptureConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live(gen) {
		return
	}
	p.cfg = cfg
}

// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/esdrastavares/heronote/cache"
	"github.com/esdrastavares/heronote/config"
	"github.com/esdrastavares/heronote/debugengine"
	"github.com/esdrastavares/heronote/debugpanel"
	"github.com/esdrastavares/heronote/internal/types"
	"github.com/esdrastavares/heronote/screenrec"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; business logic lives in sub-components.
type Service struct {
	cfg   *config.Config
	cache *cache.Cache

	// UI references - set via Init
	app    *application.App
	window application.Window

	// Diagnostics components
	state   *debugengine.State
	panel   *debugpanel.Panel
	mic     *CaptureAdapter
	speaker *CaptureAdapter

	feedCancels []func()

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string) *Service {
	return &Service{version: version}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init initializes the service with app and window references.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = &config.Config{}
	}
	s.cfg = cfg

	if cfg.Debug.AudioOutputDir == "" {
		if dir, derr := config.DefaultAudioDir(); derr == nil {
			cfg.Debug.AudioOutputDir = dir
		} else {
			slog.Error("resolve audio dir", "error", derr)
		}
	}

	// Initialize cache
	s.setupCache()

	// Diagnostics always start disabled; enabling is a per-session choice.
	s.state = debugengine.New(cfg.CaptureConfig(false), s.cache)
	s.mic = NewCaptureAdapter(types.SourceMic, s.state)
	s.speaker = NewCaptureAdapter(types.SourceSpeaker, s.state)

	panel, err := debugpanel.New(debugpanel.Options{
		Engine:       &captureEngine{state: s.state, mic: s.mic, speaker: s.speaker},
		Feed:         s.state,
		Permissions:  screenPermissions{},
		PollInterval: time.Duration(cfg.Debug.PollIntervalMs) * time.Millisecond,
		LogCapacity:  cfg.Debug.LogCapacity,
	})
	if err != nil {
		slog.Error("init debug panel", "error", err)
		return
	}
	s.panel = panel

	s.forwardFeed()
	s.probePermission()
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.mic != nil {
		_ = s.mic.Stop()
	}
	if s.speaker != nil {
		_ = s.speaker.Stop()
	}
	if s.panel != nil {
		if err := s.panel.SetEnabled(context.Background(), false); err != nil {
			slog.Error("disable diagnostics", "error", err)
		}
	}
	for _, cancel := range s.feedCancels {
		cancel()
	}
	s.feedCancels = nil
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("close cache", "error", err)
		}
	}
}

func (s *Service) setupCache() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Error("get config dir for cache", "error", err)
		return
	}

	cachePath := filepath.Join(configDir, "heronote", "cache")
	c, err := cache.New(cachePath)
	if err != nil {
		slog.Error("init cache", "error", err)
		return
	}
	s.cache = c
	slog.Info("cache initialized", "path", cachePath)
}

// forwardFeed relays engine push events to the webview. The panel keeps
// its own subscriptions for state; these exist so the frontend can render
// pushes without polling the bindings.
func (s *Service) forwardFeed() {
	s.feedCancels = append(s.feedCancels,
		s.state.OnMetrics(func(m types.AudioMetrics) { s.emit(EventDebugMetrics, m) }),
		s.state.OnLog(func(e types.LogEntry) { s.emit(EventDebugLog, e) }),
		s.state.OnFileSaved(func(f types.AudioFile) { s.emit(EventDebugFileSaved, f) }),
	)
}

// probePermission checks screen recording access at startup so the
// frontend can surface a prompt before the first speaker capture.
func (s *Service) probePermission() {
	granted := screenrec.HasPermission()
	s.emit(EventScreenRecPerm, granted)
	if granted {
		slog.Info("screen recording permission granted")
	} else {
		slog.Warn("screen recording permission not granted")
	}
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

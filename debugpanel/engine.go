package debugpanel

import (
	"context"

	"github.com/esdrastavares/heronote/internal/types"
)

// Engine is the request/response surface of the capture engine that the
// panel depends on. Implementations may be remote or in-process; the panel
// only assumes the calls can fail.
type Engine interface {
	// DebugAvailable reports whether the diagnostics subsystem exists at
	// all. Absence is a normal outcome, not an error state.
	DebugAvailable(ctx context.Context) (bool, error)

	// ToggleDebugMode switches diagnostics on or off in the engine. It
	// fails with an engine-reported error if the engine cannot switch.
	ToggleDebugMode(ctx context.Context, enabled bool) error

	DebugConfig(ctx context.Context) (types.CaptureConfig, error)
	DebugMetrics(ctx context.Context) (types.AudioMetrics, error)
	ListDebugFiles(ctx context.Context) ([]types.AudioFile, error)
	ResetDebugCounters(ctx context.Context) error
}

// Feed delivers the engine's unsolicited push events. Each subscription
// returns a cancel function that stops delivery; after cancel returns no
// further calls to the handler are made by the feed itself, but the panel
// additionally guards every handler so late deliveries cannot touch a
// torn-down session.
type Feed interface {
	OnMetrics(fn func(types.AudioMetrics)) (cancel func())
	OnLog(fn func(types.LogEntry)) (cancel func())
	OnFileSaved(fn func(types.AudioFile)) (cancel func())
}

// Permissions is the OS permission surface required for speaker capture.
type Permissions interface {
	Check(ctx context.Context) (bool, error)
	Request(ctx context.Context) (bool, error)
	OpenSettings(ctx context.Context) error
}

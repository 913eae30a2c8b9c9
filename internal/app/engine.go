package app

import (
	"context"

	"github.com/esdrastavares/heronote/debugengine"
	"github.com/esdrastavares/heronote/internal/types"
)

// captureEngine adapts the in-process diagnostics state and the capture
// adapters to the panel's engine surface.
type captureEngine struct {
	state   *debugengine.State
	mic     *CaptureAdapter
	speaker *CaptureAdapter
}

func (e *captureEngine) DebugAvailable(ctx context.Context) (bool, error) {
	return debugBuild, nil
}

func (e *captureEngine) ToggleDebugMode(ctx context.Context, enabled bool) error {
	e.state.SetEnabled(enabled)
	return nil
}

func (e *captureEngine) DebugConfig(ctx context.Context) (types.CaptureConfig, error) {
	return e.state.Config(), nil
}

func (e *captureEngine) DebugMetrics(ctx context.Context) (types.AudioMetrics, error) {
	m := e.state.Metrics()
	// The capture flags live with the adapters, not the counters.
	m.Mic.Capturing = e.mic.Running()
	m.Speaker.Capturing = e.speaker.Running()
	return m, nil
}

func (e *captureEngine) ListDebugFiles(ctx context.Context) ([]types.AudioFile, error) {
	return e.state.ListFiles(), nil
}

func (e *captureEngine) ResetDebugCounters(ctx context.Context) error {
	e.state.ResetCounters()
	return nil
}

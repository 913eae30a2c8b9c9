package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/esdrastavares/heronote/debugengine"
	"github.com/esdrastavares/heronote/debugpanel"
	"github.com/esdrastavares/heronote/internal/types"
)

func newTestEngine(t *testing.T) *captureEngine {
	t.Helper()
	state := debugengine.New(types.CaptureConfig{
		Enabled:        true,
		SaveAudioFiles: true,
		AudioOutputDir: filepath.Join(t.TempDir(), "audio"),
	}, nil)
	return &captureEngine{
		state:   state,
		mic:     NewCaptureAdapter(types.SourceMic, state),
		speaker: NewCaptureAdapter(types.SourceSpeaker, state),
	}
}

func TestEngineAvailability(t *testing.T) {
	e := newTestEngine(t)

	ok, err := e.DebugAvailable(context.Background())
	if err != nil {
		t.Fatalf("DebugAvailable: %v", err)
	}
	if ok != debugBuild {
		t.Errorf("availability = %v, build constant = %v", ok, debugBuild)
	}
}

func TestEngineToggle(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if err := e.ToggleDebugMode(ctx, false); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	cfg, err := e.DebugConfig(ctx)
	if err != nil {
		t.Fatalf("DebugConfig: %v", err)
	}
	if cfg.Enabled {
		t.Error("config should report disabled")
	}

	if err := e.ToggleDebugMode(ctx, true); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	cfg, _ = e.DebugConfig(ctx)
	if !cfg.Enabled {
		t.Error("config should report enabled")
	}
}

func TestEngineMetricsStitchCounters(t *testing.T) {
	e := newTestEngine(t)
	e.state.AddSamples(types.SourceMic, 640)
	e.state.AddDropped(types.SourceSpeaker, 3)

	m, err := e.DebugMetrics(context.Background())
	if err != nil {
		t.Fatalf("DebugMetrics: %v", err)
	}
	if m.Mic.SamplesProcessed != 640 {
		t.Errorf("mic processed = %d, want 640", m.Mic.SamplesProcessed)
	}
	if m.Speaker.SamplesDropped != 3 {
		t.Errorf("speaker dropped = %d, want 3", m.Speaker.SamplesDropped)
	}
	if m.Mic.Capturing || m.Speaker.Capturing {
		t.Error("idle adapters should not report capturing")
	}
}

func TestEngineResetCounters(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.state.AddSamples(types.SourceMic, 100)
	e.state.AddSamples(types.SourceSpeaker, 200)

	if err := e.ResetDebugCounters(ctx); err != nil {
		t.Fatalf("ResetDebugCounters: %v", err)
	}

	m, _ := e.DebugMetrics(ctx)
	if m.Mic.SamplesProcessed != 0 || m.Speaker.SamplesProcessed != 0 {
		t.Errorf("counters not zeroed: %+v", m)
	}
}

func TestPanelOverEngine(t *testing.T) {
	if !debugBuild {
		t.Skip("diagnostics compiled out; run with -tags debug")
	}

	e := newTestEngine(t)
	e.state.SetEnabled(false)

	panel, err := debugpanel.New(debugpanel.Options{
		Engine:       e,
		Feed:         e.state,
		Permissions:  screenPermissions{},
		PollInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("New panel: %v", err)
	}

	ctx := context.Background()
	if !panel.Available() {
		t.Fatal("panel should be available in debug builds")
	}
	if err := panel.SetEnabled(ctx, true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if !e.state.Enabled() {
		t.Error("engine state should be enabled")
	}

	// A log pushed by the engine lands in the panel buffer.
	e.state.Infof("capture pipeline ready")
	logs := panel.Logs()
	if len(logs) != 1 || logs[0].Message != "capture pipeline ready" {
		t.Errorf("logs = %+v", logs)
	}

	if err := panel.SetEnabled(ctx, false); err != nil {
		t.Fatalf("SetEnabled off: %v", err)
	}
	if e.state.Enabled() {
		t.Error("engine state should be disabled")
	}
}

func TestEngineListFilesEmptyDir(t *testing.T) {
	e := newTestEngine(t)

	files, err := e.ListDebugFiles(context.Background())
	if err != nil {
		t.Fatalf("ListDebugFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

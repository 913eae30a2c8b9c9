package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/esdrastavares/heronote/audiocapture"
	"github.com/esdrastavares/heronote/debugengine"
	"github.com/esdrastavares/heronote/internal/types"
)

// DefaultSampleRate matches the transcription pipeline downstream.
const DefaultSampleRate = 16000

const bufferSeconds = 30

// metricsEvery controls how often a capture callback refreshes the
// diagnostics metrics. Callbacks arrive every few tens of milliseconds;
// pushing a snapshot on each one would flood the feed.
const metricsEvery = 10

// CaptureAdapter manages one audio capture stream with proper
// synchronization. It feeds buffer and throughput numbers into the
// diagnostics state and, when artifact saving is on, streams the run
// into a WAV file.
type CaptureAdapter struct {
	source types.AudioSource
	state  *debugengine.State

	mu       sync.Mutex
	capture  audiocapture.Capturer
	writer   *debugengine.Writer
	stopChan chan struct{}
}

// NewCaptureAdapter creates an adapter for the given source.
func NewCaptureAdapter(source types.AudioSource, state *debugengine.State) *CaptureAdapter {
	return &CaptureAdapter{source: source, state: state}
}

// Start begins capturing the adapter's source.
func (ca *CaptureAdapter) Start(sampleRate int) error {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	if ca.capture != nil {
		return fmt.Errorf("%s capture already running", ca.source)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	cap, err := audiocapture.New(audiocapture.Source(ca.source), sampleRate)
	if err != nil {
		return fmt.Errorf("create audio capture: %w", err)
	}
	rate := cap.SampleRate()

	writer, err := debugengine.NewWriter(ca.state, ca.source, rate)
	if err != nil {
		// Capture still works without the artifact.
		slog.Warn("open debug artifact", "source", ca.source, "error", err)
		writer = nil
	}

	buffer := audiocapture.NewRingBuffer(bufferSeconds * rate)
	stop := make(chan struct{})
	calls := 0

	if err := cap.Start(func(samples []float32) {
		select {
		case <-stop:
			return
		default:
		}
		calls++
		ca.handleSamples(buffer, writer, samples, calls)
	}); err != nil {
		if writer != nil {
			writer.Discard()
		}
		return fmt.Errorf("start audio capture: %w", err)
	}

	ca.capture = cap
	ca.writer = writer
	ca.stopChan = stop

	ca.state.UpdateMetrics(func(m *types.AudioMetrics) {
		sm := ca.slot(m)
		sm.SampleRate = rate
		sm.Capturing = true
		sm.BufferUsagePercent = 0
	})
	ca.state.EmitMetrics()
	ca.state.Infof("%s capture started at %d Hz", ca.source, rate)

	slog.Info("audio capture started", "source", ca.source, "sample_rate", rate)
	return nil
}

// handleSamples runs on the capture thread and must not block.
func (ca *CaptureAdapter) handleSamples(buffer *audiocapture.RingBuffer, writer *debugengine.Writer, samples []float32, calls int) {
	t0 := time.Now()

	buffer.Write(samples)
	ca.state.AddSamples(ca.source, uint64(len(samples)))

	if writer != nil {
		if err := writer.Write(samples); err != nil {
			ca.state.AddDropped(ca.source, uint64(len(samples)))
			ca.state.Errorf("write %s artifact: %v", ca.source, err)
		}
	}

	if calls%metricsEvery != 0 {
		return
	}

	cfg := ca.state.Config()
	elapsed := float64(time.Since(t0).Microseconds()) / 1000

	ca.state.UpdateMetrics(func(m *types.AudioMetrics) {
		sm := ca.slot(m)
		sm.BufferUsagePercent = buffer.Usage()
		if cfg.LogPerformance {
			sm.LatencyMs = elapsed
		}
	})
	ca.state.EmitMetrics()

	if cfg.LogAudioBuffers {
		ca.state.Logf(types.LevelDebug, "%s buffer: %d samples in, %.1f%% full",
			ca.source, len(samples), buffer.Usage())
	}
	if cfg.LogPerformance {
		ca.state.Logf(types.LevelDebug, "%s chunk processed in %.2fms", ca.source, elapsed)
	}
}

// Stop stops the capture and finalizes any open artifact.
func (ca *CaptureAdapter) Stop() error {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	if ca.capture == nil {
		return nil
	}

	if ca.stopChan != nil {
		close(ca.stopChan)
		ca.stopChan = nil
	}

	err := ca.capture.Stop()
	ca.capture = nil

	if ca.writer != nil {
		if _, ferr := ca.writer.Finalize(); ferr != nil {
			ca.state.Errorf("finalize %s artifact: %v", ca.source, ferr)
		}
		ca.writer = nil
	}

	ca.state.UpdateMetrics(func(m *types.AudioMetrics) {
		sm := ca.slot(m)
		sm.Capturing = false
		sm.BufferUsagePercent = 0
	})
	ca.state.EmitMetrics()
	ca.state.Infof("%s capture stopped", ca.source)

	slog.Info("audio capture stopped", "source", ca.source)
	return err
}

// Running reports whether the adapter is currently capturing.
func (ca *CaptureAdapter) Running() bool {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.capture != nil
}

func (ca *CaptureAdapter) slot(m *types.AudioMetrics) *types.SourceMetrics {
	if ca.source == types.SourceMic {
		return &m.Mic
	}
	return &m.Speaker
}

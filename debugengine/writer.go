package debugengine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/esdrastavares/heronote/internal/types"
)

// Writer streams the float samples of one capture run into a timestamped
// WAV artifact. When diagnostics is disabled, or artifact saving is off,
// it is a null writer and every operation is a no-op.
type Writer struct {
	state      *State
	source     types.AudioSource
	sampleRate int

	f       *os.File
	enc     *wav.Encoder
	path    string
	written uint64
}

// NewWriter creates an artifact writer for one capture run. The writer is
// inert unless diagnostics is enabled and artifact saving is configured.
func NewWriter(state *State, source types.AudioSource, sampleRate int) (*Writer, error) {
	w := &Writer{state: state, source: source, sampleRate: sampleRate}

	cfg := state.Config()
	if !cfg.Enabled || !cfg.SaveAudioFiles {
		return w, nil
	}

	if err := os.MkdirAll(cfg.AudioOutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.wav", source, time.Now().UTC().Format("20060102_150405"))
	w.path = filepath.Join(cfg.AudioOutputDir, name)

	f, err := os.Create(w.path)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	w.f = f
	w.enc = wav.NewEncoder(f, sampleRate, 16, 1, 1)

	slog.Info("debug artifact writer created",
		"path", w.path, "source", source, "sample_rate", sampleRate)
	return w, nil
}

// Active reports whether the writer is backed by a file.
func (w *Writer) Active() bool {
	return w.enc != nil
}

// SamplesWritten returns the number of samples written so far.
func (w *Writer) SamplesWritten() uint64 {
	return w.written
}

// Write appends mono float samples in [-1, 1] to the artifact.
func (w *Writer) Write(samples []float32) error {
	if w.enc == nil {
		return nil
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: w.sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}

	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	w.written += uint64(len(samples))
	return nil
}

// Discard closes and deletes the artifact without registering it. Used
// when a capture run fails before producing any audio.
func (w *Writer) Discard() {
	if w.enc == nil {
		return
	}
	w.enc = nil
	w.f.Close()
	os.Remove(w.path)
}

// Finalize closes the artifact, registers it with the diagnostics state
// (which pushes the file-saved event) and returns its record. On a null
// writer it returns (nil, nil).
func (w *Writer) Finalize() (*types.AudioFile, error) {
	if w.enc == nil {
		return nil, nil
	}

	enc := w.enc
	w.enc = nil
	if err := enc.Close(); err != nil {
		w.f.Close()
		return nil, fmt.Errorf("finalize artifact: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return nil, fmt.Errorf("close artifact: %w", err)
	}

	var size int64
	if info, err := os.Stat(w.path); err == nil {
		size = info.Size()
	}

	file := types.AudioFile{
		Path:         w.path,
		Source:       w.source,
		CreatedAt:    time.Now().UTC(),
		DurationSecs: float64(w.written) / float64(w.sampleRate),
		SampleRate:   w.sampleRate,
		SizeBytes:    size,
	}
	w.state.RegisterFile(file)

	slog.Info("debug artifact saved",
		"path", file.Path,
		"duration_secs", file.DurationSecs,
		"samples", w.written,
		"size_bytes", file.SizeBytes)
	return &file, nil
}

package debugengine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/esdrastavares/heronote/internal/types"
)

func TestWriterNullWhenDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.CaptureConfig
	}{
		{"diagnostics off", types.CaptureConfig{Enabled: false, SaveAudioFiles: true, AudioOutputDir: "/nonexistent"}},
		{"saving off", types.CaptureConfig{Enabled: true, SaveAudioFiles: false, AudioOutputDir: "/nonexistent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg, nil)
			w, err := NewWriter(s, types.SourceMic, 16000)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			if w.Active() {
				t.Fatal("writer should be inert")
			}

			if err := w.Write(make([]float32, 256)); err != nil {
				t.Fatalf("Write on null writer: %v", err)
			}
			rec, err := w.Finalize()
			if err != nil {
				t.Fatalf("Finalize on null writer: %v", err)
			}
			if rec != nil {
				t.Fatalf("null writer produced record: %+v", rec)
			}
		})
	}
}

func TestWriterProducesArtifact(t *testing.T) {
	dir := t.TempDir()
	s := New(enabledConfig(dir), nil)

	var pushed []types.AudioFile
	s.OnFileSaved(func(f types.AudioFile) { pushed = append(pushed, f) })

	const rate = 16000
	w, err := NewWriter(s, types.SourceSpeaker, rate)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if !w.Active() {
		t.Fatal("writer should be active")
	}

	// Two seconds of silence in four chunks.
	chunk := make([]float32, rate/2)
	for i := 0; i < 4; i++ {
		if err := w.Write(chunk); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if got := w.SamplesWritten(); got != 2*rate {
		t.Fatalf("samples written = %d, want %d", got, 2*rate)
	}

	rec, err := w.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rec == nil {
		t.Fatal("expected artifact record")
	}

	if !strings.HasPrefix(rec.Path, dir) {
		t.Errorf("path %q not under %q", rec.Path, dir)
	}
	if base := filepath.Base(rec.Path); !strings.HasPrefix(base, "speaker_") || !strings.HasSuffix(base, ".wav") {
		t.Errorf("unexpected artifact name %q", base)
	}
	if rec.Source != types.SourceSpeaker {
		t.Errorf("source = %s", rec.Source)
	}
	if rec.SampleRate != rate {
		t.Errorf("sample rate = %d", rec.SampleRate)
	}
	if rec.DurationSecs != 2 {
		t.Errorf("duration = %v, want 2", rec.DurationSecs)
	}
	if rec.SizeBytes <= 0 {
		t.Errorf("size = %d", rec.SizeBytes)
	}
	if info, err := os.Stat(rec.Path); err != nil || info.Size() != rec.SizeBytes {
		t.Errorf("artifact on disk: info=%v err=%v", info, err)
	}

	if len(pushed) != 1 || pushed[0].Path != rec.Path {
		t.Errorf("file-saved push = %v", pushed)
	}
	if time.Since(rec.CreatedAt) > time.Minute {
		t.Errorf("created_at looks wrong: %v", rec.CreatedAt)
	}
}

func TestWriterDiscard(t *testing.T) {
	dir := t.TempDir()
	s := New(enabledConfig(dir), nil)

	var pushed int
	s.OnFileSaved(func(types.AudioFile) { pushed++ })

	w, err := NewWriter(s, types.SourceMic, 16000)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Write(make([]float32, 128)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	w.Discard()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("discarded artifact left on disk: %v", entries)
	}
	if pushed != 0 {
		t.Errorf("discard should not push file-saved, got %d", pushed)
	}
	if len(s.Files()) != 0 {
		t.Errorf("discard should not register file")
	}

	// Finalize after discard is a no-op.
	if rec, err := w.Finalize(); err != nil || rec != nil {
		t.Errorf("Finalize after Discard = (%v, %v)", rec, err)
	}
}

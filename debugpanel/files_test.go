package debugpanel

import (
	"context"
	"errors"
	"testing"

	"github.com/esdrastavares/heronote/internal/types"
)

func file(path string, src types.AudioSource) types.AudioFile {
	return types.AudioFile{Path: path, Source: src, SampleRate: 48000}
}

func TestFileRegistryAddThenRefresh(t *testing.T) {
	r := NewFileRegistry()

	r1 := file("/tmp/debug_audio/mic_1.wav", types.SourceMic)
	r2 := file("/tmp/debug_audio/speaker_1.wav", types.SourceSpeaker)

	// Push-driven append first, then a full refresh that also contains r1:
	// the result is exactly {r1, r2}, no duplicates.
	r.Add(r1)
	r.Replace([]types.AudioFile{r1, r2})

	got := r.Files()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Path != r1.Path || got[1].Path != r2.Path {
		t.Fatalf("order = [%s, %s]", got[0].Path, got[1].Path)
	}
}

func TestFileRegistryReplaceDropsExternallyDeleted(t *testing.T) {
	r := NewFileRegistry()
	r.Add(file("/tmp/a.wav", types.SourceMic))
	r.Add(file("/tmp/b.wav", types.SourceMic))

	r.Replace([]types.AudioFile{file("/tmp/b.wav", types.SourceMic)})

	got := r.Files()
	if len(got) != 1 || got[0].Path != "/tmp/b.wav" {
		t.Fatalf("refresh must replace wholesale, got %v", got)
	}
}

func TestFileRegistryAddUpdatesInPlace(t *testing.T) {
	r := NewFileRegistry()
	r.Add(file("/tmp/a.wav", types.SourceMic))
	r.Add(file("/tmp/b.wav", types.SourceSpeaker))

	updated := file("/tmp/a.wav", types.SourceMic)
	updated.SizeBytes = 4096
	r.Add(updated)

	got := r.Files()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Path != "/tmp/a.wav" || got[0].SizeBytes != 4096 {
		t.Fatalf("update must keep position: %+v", got[0])
	}
}

func TestRefreshFilesUnavailableNeverReachesEngine(t *testing.T) {
	tests := []struct {
		name   string
		engine *fakeEngine
	}{
		{"probe false", &fakeEngine{
			available: false,
			files:     []types.AudioFile{file("/tmp/debug_audio/mic_1.wav", types.SourceMic)},
		}},
		{"probe error", &fakeEngine{
			available: true,
			availErr:  errors.New("no ipc"),
			files:     []types.AudioFile{file("/tmp/debug_audio/mic_1.wav", types.SourceMic)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPanel(t, tt.engine, newFakeFeed())

			p.RefreshFiles(context.Background())

			if got := tt.engine.listCount(); got != 0 {
				t.Fatalf("engine list calls = %d, want 0", got)
			}
			if got := p.Files(); len(got) != 0 {
				t.Fatalf("registry should stay empty, got %v", got)
			}
		})
	}
}

func TestFileRegistryInsertionOrder(t *testing.T) {
	r := NewFileRegistry()
	paths := []string{"/tmp/3.wav", "/tmp/1.wav", "/tmp/2.wav"}
	for _, p := range paths {
		r.Add(file(p, types.SourceMic))
	}

	got := r.Files()
	for i, p := range paths {
		if got[i].Path != p {
			t.Fatalf("position %d = %s, want %s", i, got[i].Path, p)
		}
	}
}

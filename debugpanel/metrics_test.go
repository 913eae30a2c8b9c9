package debugpanel

import (
	"context"
	"testing"
	"time"

	"github.com/esdrastavares/heronote/internal/types"
)

func TestLastArrivalWins(t *testing.T) {
	polled := types.AudioMetrics{Mic: types.SourceMetrics{SamplesProcessed: 10}}
	pushed := types.AudioMetrics{Mic: types.SourceMetrics{SamplesProcessed: 20}}

	engine := &fakeEngine{available: true, metrics: polled}
	feed := newFakeFeed()
	p := newTestPanel(t, engine, feed)

	if err := p.SetEnabled(context.Background(), true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got := p.Metrics(); got != polled {
		t.Fatalf("polled snapshot not applied: %+v", got)
	}

	// A push arriving later fully replaces the polled snapshot.
	feed.pushMetrics(pushed)
	if got := p.Metrics(); got != pushed {
		t.Fatalf("pushed snapshot should win: %+v", got)
	}
}

func TestResetCountersForcesPoll(t *testing.T) {
	engine := &fakeEngine{
		available: true,
		metrics: types.AudioMetrics{
			Mic:     types.SourceMetrics{SamplesProcessed: 500, SamplesDropped: 3},
			Speaker: types.SourceMetrics{SamplesProcessed: 800, SamplesDropped: 9},
		},
	}
	p := newTestPanel(t, engine, newFakeFeed())

	if err := p.SetEnabled(context.Background(), true); err != nil {
		t.Fatalf("enable: %v", err)
	}

	// The engine zeroes its counters on reset; the forced poll must pick
	// that up immediately, independent of the hour-long ticker.
	engine.setMetrics(types.AudioMetrics{})
	if err := p.ResetCounters(context.Background()); err != nil {
		t.Fatalf("ResetCounters: %v", err)
	}

	engine.mu.Lock()
	resets := engine.resetCalls
	engine.mu.Unlock()
	if resets != 1 {
		t.Fatalf("reset calls = %d, want 1", resets)
	}

	m := p.Metrics()
	for _, src := range []types.AudioSource{types.SourceMic, types.SourceSpeaker} {
		view := m.Source(src)
		if view.SamplesProcessed != 0 || view.SamplesDropped != 0 {
			t.Fatalf("%s counters not zeroed: %+v", src, view)
		}
	}
}

func TestResetCountersUnavailable(t *testing.T) {
	engine := &fakeEngine{available: false}
	p := newTestPanel(t, engine, newFakeFeed())

	if err := p.ResetCounters(context.Background()); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.resetCalls != 0 {
		t.Fatalf("reset must not reach the engine, calls = %d", engine.resetCalls)
	}
}

func TestNoApplyAfterDisable(t *testing.T) {
	engine := &fakeEngine{available: true}
	p, err := New(Options{
		Engine:       engine,
		Feed:         newFakeFeed(),
		PollInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.SetEnabled(context.Background(), true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := p.SetEnabled(context.Background(), false); err != nil {
		t.Fatalf("disable: %v", err)
	}

	before := p.Metrics()
	engine.setMetrics(types.AudioMetrics{Mic: types.SourceMetrics{SamplesProcessed: 12345}})
	time.Sleep(30 * time.Millisecond)

	// Even a tick in flight at disable time must not land.
	if got := p.Metrics(); got != before {
		t.Fatalf("snapshot mutated after disable: %+v", got)
	}
}

func TestSourceProjection(t *testing.T) {
	m := types.AudioMetrics{
		Mic:     types.SourceMetrics{SampleRate: 16000, DeviceName: "Built-in"},
		Speaker: types.SourceMetrics{SampleRate: 48000, Capturing: true},
	}

	tests := []struct {
		name string
		src  types.AudioSource
		want types.SourceMetrics
	}{
		{"mic", types.SourceMic, m.Mic},
		{"speaker", types.SourceSpeaker, m.Speaker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Source(tt.src); got != tt.want {
				t.Errorf("Source(%s) = %+v, want %+v", tt.src, got, tt.want)
			}
		})
	}
}

package debugpanel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/esdrastavares/heronote/internal/types"
)

// Metrics returns the current snapshot. Two producers feed it while
// enabled, the poll ticker and the pushed metrics events; whichever payload
// arrives later fully replaces the snapshot.
func (p *Panel) Metrics() types.AudioMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}

// SourceMetrics returns the per-source projection of the current snapshot.
func (p *Panel) SourceMetrics(src types.AudioSource) types.SourceMetrics {
	return p.Metrics().Source(src)
}

// ResetCounters asks the engine to zero its sample counters, then forces
// one fresh poll so the view resynchronizes immediately instead of waiting
// for the next tick.
func (p *Panel) ResetCounters(ctx context.Context) error {
	if !p.Available() {
		return ErrUnavailable
	}

	if err := p.engine.ResetDebugCounters(ctx); err != nil {
		return fmt.Errorf("reset debug counters: %w", err)
	}

	p.mu.Lock()
	s := p.session
	p.mu.Unlock()
	if s != nil {
		p.poll(s)
	}
	return nil
}

func (p *Panel) startPolling(s *session) {
	go func() {
		t := time.NewTicker(p.pollInterval)
		defer t.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-t.C:
				p.poll(s)
			}
		}
	}()
}

// poll fetches one full snapshot. A tick in flight when the session is torn
// down fetches harmlessly and then fails the generation check.
func (p *Panel) poll(s *session) {
	m, err := p.engine.DebugMetrics(s.ctx)
	if err != nil {
		if s.ctx.Err() == nil {
			slog.Warn("poll debug metrics", "error", err)
		}
		return
	}
	p.applyMetrics(s.gen, m)
}

func (p *Panel) applyMetrics(gen uint64, m types.AudioMetrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live(gen) {
		return
	}
	p.metrics = m
}

package debugpanel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/esdrastavares/heronote/internal/types"
)

// session owns the resources of one enabled period: the push subscriptions
// and the polling task, collected as a disposer set released on every exit
// path. Handlers belonging to a session carry its generation and are
// dropped once the panel has moved past it.
type session struct {
	id  string
	gen uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	cancels []func()
	closed  bool
}

func newSession(gen uint64) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:     uuid.NewString(),
		gen:    gen,
		ctx:    ctx,
		cancel: cancel,
	}
}

// add registers a disposer. Registering against an already closed session
// disposes immediately.
func (s *session) add(cancel func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()
}

// close releases all disposers and cancels the session context. It is a
// safe no-op on an empty or already closed session.
func (s *session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	s.cancel()
	for i := len(cancels) - 1; i >= 0; i-- {
		cancels[i]()
	}
}

// subscribe opens the three push-event taps for the session. Each handler
// is generation-guarded so a delivery racing with teardown cannot mutate a
// torn-down session.
func (p *Panel) subscribe(s *session) {
	gen := s.gen
	s.add(p.feed.OnMetrics(func(m types.AudioMetrics) {
		p.applyMetrics(gen, m)
	}))
	s.add(p.feed.OnLog(func(e types.LogEntry) {
		p.appendLog(gen, e)
	}))
	s.add(p.feed.OnFileSaved(func(f types.AudioFile) {
		p.addFile(gen, f)
	}))
}

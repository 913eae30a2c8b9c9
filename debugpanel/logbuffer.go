package debugpanel

import (
	"sync"

	"github.com/esdrastavares/heronote/internal/types"
)

// DefaultLogCapacity bounds the log view when no capacity is configured.
const DefaultLogCapacity = 100

// LogBuffer is a bounded, append-only log store. Once full, every append
// evicts exactly the oldest entry.
type LogBuffer struct {
	mu      sync.Mutex
	entries []types.LogEntry
	start   int
	count   int
}

// NewLogBuffer creates a buffer with the given capacity, or
// DefaultLogCapacity when capacity is not positive.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogBuffer{entries: make([]types.LogEntry, capacity)}
}

// Append inserts an entry, evicting the oldest one if the buffer is full.
func (b *LogBuffer) Append(e types.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := len(b.entries)
	if b.count < size {
		b.entries[(b.start+b.count)%size] = e
		b.count++
		return
	}
	b.entries[b.start] = e
	b.start = (b.start + 1) % size
}

// Entries returns the buffered entries in arrival order.
func (b *LogBuffer) Entries() []types.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]types.LogEntry, b.count)
	size := len(b.entries)
	for i := 0; i < b.count; i++ {
		out[i] = b.entries[(b.start+i)%size]
	}
	return out
}

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.start = 0
	b.count = 0
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the buffer capacity.
func (b *LogBuffer) Cap() int {
	return len(b.entries)
}

// Logs returns the panel's buffered log entries in arrival order.
func (p *Panel) Logs() []types.LogEntry {
	return p.logs.Entries()
}

// ClearLogs empties the panel's log view.
func (p *Panel) ClearLogs() {
	p.logs.Clear()
}

func (p *Panel) appendLog(gen uint64, e types.LogEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live(gen) {
		return
	}
	p.logs.Append(e)
}

package debugpanel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/esdrastavares/heronote/internal/types"
)

// FileRegistry is the derived listing of saved diagnostic artifacts, keyed
// by path with insertion-order iteration. Replace swaps the whole listing;
// Add appends (or updates in place) a single record. An Add that lands
// between a Replace request and its response may be clobbered and is
// reconciled by the next refresh.
type FileRegistry struct {
	mu     sync.Mutex
	order  []string
	byPath map[string]types.AudioFile
}

// NewFileRegistry creates an empty registry.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{byPath: make(map[string]types.AudioFile)}
}

// Replace swaps the registry contents wholesale. Records with a duplicate
// path keep their first position.
func (r *FileRegistry) Replace(files []types.AudioFile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = r.order[:0]
	clear(r.byPath)
	for _, f := range files {
		if _, ok := r.byPath[f.Path]; !ok {
			r.order = append(r.order, f.Path)
		}
		r.byPath[f.Path] = f
	}
}

// Add appends a record, or updates it in place if the path is already
// registered.
func (r *FileRegistry) Add(f types.AudioFile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPath[f.Path]; !ok {
		r.order = append(r.order, f.Path)
	}
	r.byPath[f.Path] = f
}

// Files returns the registered records in insertion order.
func (r *FileRegistry) Files() []types.AudioFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.AudioFile, 0, len(r.order))
	for _, path := range r.order {
		out = append(out, r.byPath[path])
	}
	return out
}

// Len returns the number of registered records.
func (r *FileRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Files returns the panel's artifact listing in insertion order.
func (p *Panel) Files() []types.AudioFile {
	return p.files.Files()
}

// RefreshFiles refetches the full artifact listing and replaces the
// registry wholesale, guarding against files deleted externally. A fetch
// failure is logged and retains the stale listing. On an unavailable
// panel the engine is never contacted.
func (p *Panel) RefreshFiles(ctx context.Context) {
	if !p.Available() {
		return
	}

	files, err := p.engine.ListDebugFiles(ctx)
	if err != nil {
		slog.Warn("refresh debug files", "error", err)
		return
	}
	p.files.Replace(files)
}

func (p *Panel) replaceFiles(gen uint64, files []types.AudioFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live(gen) {
		return
	}
	p.files.Replace(files)
}

func (p *Panel) addFile(gen uint64, f types.AudioFile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live(gen) {
		return
	}
	p.files.Add(f)
}

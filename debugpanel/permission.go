package debugpanel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/esdrastavares/heronote/internal/types"
)

// PermissionNegotiator tracks the tri-state OS permission required for
// speaker capture. It operates independently of the enable lifecycle and
// fails closed: a failing probe or request downgrades the cached state to
// denied so a UI can always decide whether to show remediation.
type PermissionNegotiator struct {
	perms Permissions

	mu    sync.Mutex
	state types.PermissionState
}

// NewPermissionNegotiator creates a negotiator in the unknown state. A nil
// Permissions collaborator makes every probe fail closed.
func NewPermissionNegotiator(perms Permissions) *PermissionNegotiator {
	return &PermissionNegotiator{perms: perms, state: types.PermissionUnknown}
}

// State returns the cached permission state.
func (n *PermissionNegotiator) State() types.PermissionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Probe checks the permission and updates the cached state.
func (n *PermissionNegotiator) Probe(ctx context.Context) types.PermissionState {
	if n.perms == nil {
		return n.set(types.PermissionDenied)
	}
	granted, err := n.perms.Check(ctx)
	if err != nil {
		slog.Warn("check screen recording permission", "error", err)
		return n.set(types.PermissionDenied)
	}
	return n.setGranted(granted)
}

// Request asks the OS for the permission and updates the cached state with
// the outcome.
func (n *PermissionNegotiator) Request(ctx context.Context) types.PermissionState {
	if n.perms == nil {
		return n.set(types.PermissionDenied)
	}
	granted, err := n.perms.Request(ctx)
	if err != nil {
		slog.Warn("request screen recording permission", "error", err)
		return n.set(types.PermissionDenied)
	}
	return n.setGranted(granted)
}

// OpenSettings deep-links into the OS permission settings. It changes no
// state; a failure is logged only.
func (n *PermissionNegotiator) OpenSettings(ctx context.Context) {
	if n.perms == nil {
		return
	}
	if err := n.perms.OpenSettings(ctx); err != nil {
		slog.Warn("open screen recording settings", "error", err)
	}
}

func (n *PermissionNegotiator) setGranted(granted bool) types.PermissionState {
	if granted {
		return n.set(types.PermissionGranted)
	}
	return n.set(types.PermissionDenied)
}

func (n *PermissionNegotiator) set(state types.PermissionState) types.PermissionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = state
	return state
}

// Permission returns the cached screen-recording permission state.
func (p *Panel) Permission() types.PermissionState {
	return p.perm.State()
}

// ProbePermission refreshes the screen-recording permission state.
func (p *Panel) ProbePermission(ctx context.Context) types.PermissionState {
	return p.perm.Probe(ctx)
}

// RequestPermission asks the OS for screen-recording permission.
func (p *Panel) RequestPermission(ctx context.Context) types.PermissionState {
	return p.perm.Request(ctx)
}

// OpenPermissionSettings opens the OS screen-recording settings pane.
func (p *Panel) OpenPermissionSettings(ctx context.Context) {
	p.perm.OpenSettings(ctx)
}

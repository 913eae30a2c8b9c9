// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventDebugMetrics   = "debug:metrics"
	EventDebugLog       = "debug:log"
	EventDebugFileSaved = "debug:file-saved"
	EventScreenRecPerm  = "screen-recording-permission"
)

//go:build debug

package app

// Diagnostics ships only in builds made with -tags debug.
const debugBuild = true

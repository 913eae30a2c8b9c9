//go:build !darwin

package screenrec

import "errors"

// HasPermission reports whether screen recording is permitted.
// No permission is required outside macOS.
func HasPermission() bool {
	return true
}

// RequestPermission asks for screen recording permission.
// No permission is required outside macOS.
func RequestPermission() bool {
	return true
}

// OpenSettings opens the system permission settings.
func OpenSettings() error {
	return errors.New("screenrec: no permission settings on this platform")
}

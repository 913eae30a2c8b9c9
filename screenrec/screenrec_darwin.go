// Package screenrec handles the macOS screen recording permission,
// which ScreenCaptureKit requires before system audio can be captured.
package screenrec

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework Foundation
#import <CoreGraphics/CoreGraphics.h>
#import <Foundation/Foundation.h>

bool hasScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        return CGPreflightScreenCaptureAccess();
    }
    // No preflight API before macOS 11.
    return true;
}

bool requestScreenRecordingPermission() {
    if (@available(macOS 11.0, *)) {
        return CGRequestScreenCaptureAccess();
    }
    return true;
}
*/
import "C"
import (
	"fmt"
	"os/exec"
)

// settingsURL deep-links into the Screen Recording pane of System Settings.
const settingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_ScreenCapture"

// HasPermission checks if the app has screen recording permission
// without prompting the user.
func HasPermission() bool {
	return bool(C.hasScreenRecordingPermission())
}

// RequestPermission asks the system for screen recording permission.
// The first call shows the system prompt; later calls return the
// current grant without prompting again.
func RequestPermission() bool {
	return bool(C.requestScreenRecordingPermission())
}

// OpenSettings opens System Settings at the Screen Recording pane.
// It does not wait for the user to change anything.
func OpenSettings() error {
	if err := exec.Command("open", settingsURL).Start(); err != nil {
		return fmt.Errorf("open system settings: %w", err)
	}
	return nil
}

//go:build darwin

package audiocapture

/*
#cgo CFLAGS: -x objective-c -fobjc-arc -mmacosx-version-min=13.0
#cgo LDFLAGS: -framework ScreenCaptureKit -framework CoreMedia -framework CoreAudio -framework Foundation -framework AVFoundation

#include <stdlib.h>

extern int startMicCapture(int targetSampleRate, char** errOut);
extern void stopMicCapture(void);
extern int startSystemAudioCapture(int targetSampleRate, char** errOut);
extern void stopSystemAudioCapture(void);
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Global handlers for CGO callbacks. One capture per source at a time.
var (
	globalHandlers   = map[Source]AudioHandler{}
	globalHandlersMu sync.RWMutex
)

func dispatchSamples(src Source, samples *C.float, count C.int) {
	n := int(count)
	if n <= 0 {
		return
	}

	globalHandlersMu.RLock()
	h := globalHandlers[src]
	globalHandlersMu.RUnlock()

	if h == nil {
		return
	}

	// Convert C array to Go slice without extra allocation.
	// Safe because the handler must not retain the slice.
	goSamples := unsafe.Slice((*float32)(unsafe.Pointer(samples)), n)
	h(goSamples)
}

//export goMicAudioCallback
func goMicAudioCallback(samples *C.float, count C.int) {
	dispatchSamples(SourceMic, samples, count)
}

//export goSystemAudioCallback
func goSystemAudioCallback(samples *C.float, count C.int) {
	dispatchSamples(SourceSpeaker, samples, count)
}

// capturer is the macOS implementation. The microphone stream comes from
// AVFoundation, the speaker stream from ScreenCaptureKit.
type capturer struct {
	source     Source
	sampleRate int
	mu         sync.Mutex
	running    bool
}

// New creates a Capturer for the given source on macOS.
func New(source Source, sampleRate int) (Capturer, error) {
	switch source {
	case SourceMic, SourceSpeaker:
	default:
		return nil, fmt.Errorf("audiocapture: unknown source %q", source)
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &capturer{source: source, sampleRate: sampleRate}, nil
}

func (c *capturer) Start(handler AudioHandler) error {
	if handler == nil {
		return errors.New("audiocapture: nil handler")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrRunning
	}

	// Set global handler before starting capture.
	globalHandlersMu.Lock()
	globalHandlers[c.source] = handler
	globalHandlersMu.Unlock()

	var errStr *C.char
	var result C.int
	if c.source == SourceMic {
		result = C.startMicCapture(C.int(c.sampleRate), &errStr)
	} else {
		result = C.startSystemAudioCapture(C.int(c.sampleRate), &errStr)
	}
	if result != 0 {
		globalHandlersMu.Lock()
		delete(globalHandlers, c.source)
		globalHandlersMu.Unlock()

		if errStr != nil {
			err := errors.New(C.GoString(errStr))
			C.free(unsafe.Pointer(errStr))
			return err
		}
		return errors.New("audiocapture: unknown error")
	}

	c.running = true
	return nil
}

func (c *capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	if c.source == SourceMic {
		C.stopMicCapture()
	} else {
		C.stopSystemAudioCapture()
	}

	globalHandlersMu.Lock()
	delete(globalHandlers, c.source)
	globalHandlersMu.Unlock()

	c.running = false
	return nil
}

func (c *capturer) SampleRate() int {
	return c.sampleRate
}

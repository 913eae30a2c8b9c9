// Package audiocapture captures microphone and system audio.
// On macOS it uses AVFoundation for the microphone and ScreenCaptureKit
// for system audio, so no virtual audio device like BlackHole is needed.
package audiocapture

import (
	"errors"
	"sync"
)

// ErrUnsupported is returned when audio capture is not available on this platform.
var ErrUnsupported = errors.New("audiocapture: not supported on this platform")

// ErrRunning is returned when trying to start capture while already running.
var ErrRunning = errors.New("audiocapture: already capturing")

// Source identifies which audio stream a capturer records.
type Source string

const (
	// SourceMic captures the default input device.
	SourceMic Source = "mic"
	// SourceSpeaker captures system audio output.
	SourceSpeaker Source = "speaker"
)

// AudioHandler receives float32 samples in the range [-1, 1].
// It is called from the capture thread and must not block.
type AudioHandler func(samples []float32)

// Capturer records a single audio source.
type Capturer interface {
	// Start begins capture and delivers samples to handler until Stop.
	Start(handler AudioHandler) error
	// Stop ends capture. Safe to call multiple times.
	Stop() error
	// SampleRate returns the configured sample rate in Hz.
	SampleRate() int
}

// RingBuffer is a thread-safe circular buffer for audio samples.
type RingBuffer struct {
	mu       sync.RWMutex
	data     []float32
	writePos int
	size     int
	filled   int // How many samples have been written (up to size)
}

// NewRingBuffer creates a new ring buffer with the given capacity.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]float32, size),
		size: size,
	}
}

// Write adds samples to the buffer, overwriting the oldest when full.
func (rb *RingBuffer) Write(samples []float32) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, s := range samples {
		rb.data[rb.writePos] = s
		rb.writePos = (rb.writePos + 1) % rb.size
		if rb.filled < rb.size {
			rb.filled++
		}
	}
}

// Read returns the last n samples from the buffer.
func (rb *RingBuffer) Read(n int) []float32 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n > rb.filled {
		n = rb.filled
	}
	if n == 0 {
		return nil
	}

	result := make([]float32, n)

	startPos := (rb.writePos - n + rb.size) % rb.size
	for i := 0; i < n; i++ {
		result[i] = rb.data[(startPos+i)%rb.size]
	}

	return result
}

// Clear empties the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.writePos = 0
	rb.filled = 0
}

// Len returns the number of samples in the buffer.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.filled
}

// Cap returns the buffer capacity in samples.
func (rb *RingBuffer) Cap() int {
	return rb.size
}

// Usage returns how full the buffer is, as a percentage in [0, 100].
func (rb *RingBuffer) Usage() float64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	if rb.size == 0 {
		return 0
	}
	return float64(rb.filled) / float64(rb.size) * 100
}

// Package types provides shared type definitions for the application.
package types

import "time"

// AudioSource identifies one of the two capture sources.
type AudioSource string

const (
	SourceMic     AudioSource = "mic"
	SourceSpeaker AudioSource = "speaker"
)

// LogLevel is the severity of a diagnostic log entry.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// PermissionState is the cached result of an OS permission probe.
type PermissionState string

const (
	PermissionUnknown PermissionState = "unknown"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// CaptureConfig is the engine's diagnostics configuration. It is fetched as
// an immutable snapshot and replaced wholesale on each fetch.
type CaptureConfig struct {
	Enabled         bool   `json:"enabled"`
	SaveAudioFiles  bool   `json:"save_audio_files"`
	LogAudioBuffers bool   `json:"log_audio_buffers"`
	LogPerformance  bool   `json:"log_performance"`
	AudioOutputDir  string `json:"audio_output_dir"`
}

// SourceMetrics holds the per-source slice of a metrics snapshot.
type SourceMetrics struct {
	SampleRate         int     `json:"sample_rate"`
	BufferUsagePercent float64 `json:"buffer_usage_percent"`
	SamplesProcessed   uint64  `json:"samples_processed"`
	SamplesDropped     uint64  `json:"samples_dropped"`
	LatencyMs          float64 `json:"latency_ms"`
	DeviceName         string  `json:"device_name,omitempty"`
	Capturing          bool    `json:"capturing"`
}

// AudioMetrics is one atomic metrics snapshot covering both sources.
// Counters are non-decreasing within a session except immediately after an
// explicit reset.
type AudioMetrics struct {
	Mic        SourceMetrics `json:"mic"`
	Speaker    SourceMetrics `json:"speaker"`
	LastUpdate time.Time     `json:"last_update"`
}

// Source returns the per-source projection of the snapshot. It is derived
// on demand and never stored independently.
func (m AudioMetrics) Source(src AudioSource) SourceMetrics {
	if src == SourceSpeaker {
		return m.Speaker
	}
	return m.Mic
}

// AudioFile describes a saved diagnostic audio artifact. Path is the
// identity key.
type AudioFile struct {
	Path         string      `json:"path"`
	Source       AudioSource `json:"source"`
	CreatedAt    time.Time   `json:"created_at"`
	DurationSecs float64     `json:"duration_secs"`
	SampleRate   int         `json:"sample_rate"`
	SizeBytes    int64       `json:"size_bytes"`
}

// LogEntry is one diagnostic log line pushed by the engine. Entries have no
// identity; duplicates are legal and kept in arrival order.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
}

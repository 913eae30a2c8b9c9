package app

import (
	"context"
	"fmt"

	"github.com/esdrastavares/heronote/config"
	"github.com/esdrastavares/heronote/internal/types"
)

// IsDebugAvailable reports whether the diagnostics subsystem is compiled in.
func (s *Service) IsDebugAvailable() bool {
	return s.panel.Available()
}

// ToggleDebugMode enables or disables the diagnostics session.
func (s *Service) ToggleDebugMode(enabled bool) error {
	return s.panel.SetEnabled(context.Background(), enabled)
}

// IsDebugEnabled reports whether diagnostics mode is currently on.
func (s *Service) IsDebugEnabled() bool {
	return s.panel.Enabled()
}

// GetDebugConfig returns the last synchronized capture configuration.
func (s *Service) GetDebugConfig() types.CaptureConfig {
	return s.panel.Config()
}

// GetDebugMetrics returns the current metrics snapshot.
func (s *Service) GetDebugMetrics() types.AudioMetrics {
	return s.panel.Metrics()
}

// GetDebugSourceMetrics returns one source's slice of the snapshot.
func (s *Service) GetDebugSourceMetrics(src types.AudioSource) types.SourceMetrics {
	return s.panel.SourceMetrics(src)
}

// GetDebugLogs returns the buffered diagnostic log entries, oldest first.
func (s *Service) GetDebugLogs() []types.LogEntry {
	return s.panel.Logs()
}

// ClearDebugLogs empties the log buffer.
func (s *Service) ClearDebugLogs() {
	s.panel.ClearLogs()
}

// ListDebugFiles returns the known capture artifacts, newest first.
func (s *Service) ListDebugFiles() []types.AudioFile {
	return s.panel.Files()
}

// RefreshDebugFiles re-scans the artifact directory and returns the result.
func (s *Service) RefreshDebugFiles() []types.AudioFile {
	s.panel.RefreshFiles(context.Background())
	return s.panel.Files()
}

// ResetDebugCounters zeroes the engine's sample counters.
func (s *Service) ResetDebugCounters() error {
	return s.panel.ResetCounters(context.Background())
}

// GetDebugAudioDir returns the directory WAV artifacts are written to.
func (s *Service) GetDebugAudioDir() string {
	return s.cfg.Debug.AudioOutputDir
}

// GetDebugSettings returns the persisted diagnostics preferences.
func (s *Service) GetDebugSettings() config.DebugSettings {
	return s.cfg.Debug
}

// SetDebugSettings persists new diagnostics preferences and applies them
// to the engine. Poll interval and log capacity changes take effect on
// the next launch.
func (s *Service) SetDebugSettings(settings config.DebugSettings) error {
	if settings.AudioOutputDir == "" {
		dir, err := config.DefaultAudioDir()
		if err != nil {
			return fmt.Errorf("resolve audio dir: %w", err)
		}
		settings.AudioOutputDir = dir
	}

	s.cfg.Debug = settings
	if err := s.cfg.Save(); err != nil {
		return err
	}

	s.state.UpdateConfig(s.cfg.CaptureConfig(s.state.Enabled()))
	return nil
}

// CheckScreenRecordingPermission probes the permission without prompting.
func (s *Service) CheckScreenRecordingPermission() types.PermissionState {
	return s.panel.ProbePermission(context.Background())
}

// RequestScreenRecordingPermission shows the system prompt if needed and
// returns the resulting state.
func (s *Service) RequestScreenRecordingPermission() types.PermissionState {
	return s.panel.RequestPermission(context.Background())
}

// GetScreenRecordingPermission returns the cached permission state.
func (s *Service) GetScreenRecordingPermission() types.PermissionState {
	return s.panel.Permission()
}

// OpenScreenRecordingSettings opens System Settings at the screen
// recording pane.
func (s *Service) OpenScreenRecordingSettings() {
	s.panel.OpenPermissionSettings(context.Background())
}

// StartMicCapture begins microphone capture.
func (s *Service) StartMicCapture() error {
	return s.mic.Start(DefaultSampleRate)
}

// StopMicCapture stops microphone capture.
func (s *Service) StopMicCapture() error {
	return s.mic.Stop()
}

// IsMicCapturing reports whether the microphone is being captured.
func (s *Service) IsMicCapturing() bool {
	return s.mic.Running()
}

// StartSpeakerCapture begins system audio capture.
func (s *Service) StartSpeakerCapture() error {
	return s.speaker.Start(DefaultSampleRate)
}

// StopSpeakerCapture stops system audio capture.
func (s *Service) StopSpeakerCapture() error {
	return s.speaker.Stop()
}

// IsSpeakerCapturing reports whether system audio is being captured.
func (s *Service) IsSpeakerCapturing() bool {
	return s.speaker.Running()
}

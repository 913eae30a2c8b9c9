package debugengine

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-audio/wav"

	"github.com/esdrastavares/heronote/cache"
	"github.com/esdrastavares/heronote/internal/types"
)

// ListFiles scans the artifact output directory for saved recordings and
// returns them newest first. Header parsing for unchanged files is served
// from the metadata cache when one is configured. A missing directory
// yields an empty listing.
func (s *State) ListFiles() []types.AudioFile {
	dir := s.Config().AudioOutputDir

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("scan artifact dir", "dir", dir, "error", err)
		}
		return nil
	}

	var files []types.AudioFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".wav") {
			continue
		}
		if f, ok := s.fileInfo(filepath.Join(dir, e.Name())); ok {
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files
}

// fileInfo builds the artifact record for one file. Files that do not
// follow the mic_/speaker_ naming are skipped.
func (s *State) fileInfo(path string) (types.AudioFile, bool) {
	var source types.AudioSource
	switch base := filepath.Base(path); {
	case strings.HasPrefix(base, "mic_"):
		source = types.SourceMic
	case strings.HasPrefix(base, "speaker_"):
		source = types.SourceSpeaker
	default:
		return types.AudioFile{}, false
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.AudioFile{}, false
	}

	key := cache.GenerateKey(path,
		strconv.FormatInt(info.Size(), 10),
		strconv.FormatInt(info.ModTime().UnixNano(), 10))

	if s.meta != nil {
		if data, ok := s.meta.Get(key); ok {
			var f types.AudioFile
			if err := json.Unmarshal(data, &f); err == nil {
				return f, true
			}
		}
	}

	sampleRate, duration := readWavHeader(path)
	f := types.AudioFile{
		Path:         path,
		Source:       source,
		CreatedAt:    info.ModTime().UTC(),
		DurationSecs: duration,
		SampleRate:   sampleRate,
		SizeBytes:    info.Size(),
	}

	if s.meta != nil {
		if data, err := json.Marshal(f); err == nil {
			if err := s.meta.Set(key, data, cache.DefaultTTL); err != nil {
				slog.Warn("cache artifact metadata", "path", path, "error", err)
			}
		}
	}
	return f, true
}

func readWavHeader(path string) (sampleRate int, durationSecs float64) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer fh.Close()

	d := wav.NewDecoder(fh)
	d.ReadInfo()
	if !d.IsValidFile() {
		return 0, 0
	}

	sampleRate = int(d.SampleRate)
	if dur, err := d.Duration(); err == nil {
		durationSecs = dur.Seconds()
	}
	return sampleRate, durationSecs
}

package tts

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration returns the playback length of an audio file in seconds,
// read from the container metadata via ffprobe.
func ProbeDuration(path string) (float64, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("failed to probe %s: %w", path, err)
	}

	var info struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return 0, fmt.Errorf("failed to parse probe output for %s: %w", path, err)
	}
	if info.Format.Duration == "" {
		return 0, fmt.Errorf("no duration in probe output for %s", path)
	}

	seconds, err := strconv.ParseFloat(info.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q for %s: %w", info.Format.Duration, path, err)
	}
	return seconds, nil
}

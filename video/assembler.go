// Package video assembles rendered frames and narration audio into a
// vertical short video.
package video

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"shortreel/config"
)

// Frame is one rendered page image with its display duration.
type Frame struct {
	Path    string
	Seconds float64
}

// Assembler builds videos with ffmpeg's concat demuxer: a frames list
// drives per-image display durations, the narration clips are concatenated
// in segment order for the audio track.
type Assembler struct{}

func NewAssembler() *Assembler { return &Assembler{} }

// Assemble encodes the frame sequence with the concatenated narration into
// outputPath. Frame order must match the narration order.
func (a *Assembler) Assemble(frames []Frame, audioPaths []string, outputPath string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to assemble")
	}
	if len(audioPaths) == 0 {
		return fmt.Errorf("no narration audio to assemble")
	}

	tmpDir := os.TempDir()
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	framesList := filepath.Join(tmpDir, fmt.Sprintf("%s_frames.txt", base))
	if err := writeFramesList(frames, framesList); err != nil {
		return fmt.Errorf("failed to write frames list: %w", err)
	}
	defer os.Remove(framesList)

	audioList := filepath.Join(tmpDir, fmt.Sprintf("%s_audio.txt", base))
	if err := writeAudioList(audioPaths, audioList); err != nil {
		return fmt.Errorf("failed to write audio list: %w", err)
	}
	defer os.Remove(audioList)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	video := ffmpeg.Input(framesList, ffmpeg.KwArgs{"f": "concat", "safe": "0"})
	audio := ffmpeg.Input(audioList, ffmpeg.KwArgs{"f": "concat", "safe": "0"})

	err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outputPath, ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"preset":   config.VideoPreset,
		"r":        fmt.Sprintf("%d", config.VideoFPS),
		"pix_fmt":  "yuv420p",
		"shortest": "",
	}).OverWriteOutput().Run()

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// writeFramesList emits a concat demuxer script with per-frame durations.
// The final frame is repeated without a duration so the demuxer holds it
// until the audio ends.
func writeFramesList(frames []Frame, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, frame := range frames {
		fmt.Fprintf(file, "file '%s'\n", concatEscape(frame.Path))
		fmt.Fprintf(file, "duration %.3f\n", frame.Seconds)
	}
	fmt.Fprintf(file, "file '%s'\n", concatEscape(frames[len(frames)-1].Path))

	return nil
}

func writeAudioList(paths []string, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, p := range paths {
		fmt.Fprintf(file, "file '%s'\n", concatEscape(p))
	}
	return nil
}

func concatEscape(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "'", "'\\''")
}

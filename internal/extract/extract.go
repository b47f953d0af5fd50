// Package extract produces short audio samples from video files via ffmpeg.
//
// The transcoder is a black box: input is a video file, output is a mono
// 44.1kHz WAV clip of fixed duration suitable for fingerprinting.
package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/vibelist/internal/shared"
)

// DefaultClipSeconds is the sample length when none is configured. Twelve
// seconds is comfortably above the fingerprinting service's minimum.
const DefaultClipSeconds = 12

// FFmpeg extracts audio samples by shelling out to an ffmpeg binary.
type FFmpeg struct {
	binary      string
	clipSeconds int
}

// NewFFmpeg creates an extractor using the given binary name (default
// "ffmpeg", resolved via PATH) and clip duration.
func NewFFmpeg(binary string, clipSeconds int) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if clipSeconds <= 0 {
		clipSeconds = DefaultClipSeconds
	}
	return &FFmpeg{binary: binary, clipSeconds: clipSeconds}
}

// args builds the ffmpeg argument list for extracting the clip.
func (f *FFmpeg) args(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ss", "0",
		"-t", strconv.Itoa(f.clipSeconds),
		"-ac", "1",
		"-ar", "44100",
		outputPath,
	}
}

// Sample extracts the first clipSeconds of audio from the video as mono
// 44.1kHz WAV and returns the clip bytes.
//
// An empty output file means the input had no usable audio track and is
// reported as an error.
func (f *FFmpeg) Sample(ctx context.Context, videoPath string) ([]byte, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("failed to stat input video: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "vibelist-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPath := filepath.Join(tmpDir, "clip.wav")

	cmd := exec.CommandContext(ctx, f.binary, f.args(videoPath, outputPath)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w\n%s", err, output)
	}

	clip, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted clip: %w", err)
	}
	if len(clip) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced an empty clip", shared.ErrEmptyAudio)
	}

	return clip, nil
}

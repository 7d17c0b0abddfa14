// Package ffmpeg resolves the ffmpeg and ffprobe binaries the pipeline
// shells out to. Resolution happens once per process; a missing binary is
// an error, surfaced before any transcoding work starts.
package ffmpeg

import (
	"errors"
	"os"
	"os/exec"
	"sync"
)

const (
	envFFmpegPath  = "SCRIBA_FFMPEG_PATH"
	envFFprobePath = "SCRIBA_FFPROBE_PATH"
)

var (
	ErrFFmpegNotFound  = errors.New("ffmpeg not found: install it or set SCRIBA_FFMPEG_PATH")
	ErrFFprobeNotFound = errors.New("ffprobe not found: install it or set SCRIBA_FFPROBE_PATH")
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce  sync.Once
	ensureErr   error
	ensurePaths BinaryPaths
)

// Ensure resolves both binaries, preferring explicit env overrides over
// PATH lookup. The result is cached for the lifetime of the process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePaths, ensureErr = locate()
	})
	return ensurePaths, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func locate() (BinaryPaths, error) {
	ffmpegPath := os.Getenv(envFFmpegPath)
	ffprobePath := os.Getenv(envFFprobePath)

	if ffmpegPath == "" {
		found, err := exec.LookPath("ffmpeg")
		if err != nil {
			return BinaryPaths{}, ErrFFmpegNotFound
		}
		ffmpegPath = found
	}

	if ffprobePath == "" {
		found, err := exec.LookPath("ffprobe")
		if err != nil {
			return BinaryPaths{}, ErrFFprobeNotFound
		}
		ffprobePath = found
	}

	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}
